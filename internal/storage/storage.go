// Package storage provides the persistence port used by every store and its
// SQLite and in-memory implementations.
package storage

import (
	"context"
	"fmt"

	"github.com/verte-zerg/spellbee/internal/model"
)

// Table names a record collection.
type Table string

// Tables known to every backend.
const (
	WordLists    Table = "word_lists"
	TestSessions Table = "test_sessions"
	SessionStats Table = "session_stats"
	Preferences  Table = "preferences"
)

var knownTables = map[Table]struct{}{
	WordLists:    {},
	TestSessions: {},
	SessionStats: {},
	Preferences:  {},
}

// UpdateFunc receives the current value (nil when absent) and returns the
// value to store. Returning an error aborts the update without writing.
// The function must not call back into the Port.
type UpdateFunc func(current []byte) ([]byte, error)

// Port is a key-value store over named tables. Values are opaque JSON
// documents owned by the calling store.
type Port interface {
	// Get returns the value for key, or an error wrapping model.ErrNotFound.
	Get(ctx context.Context, table Table, key string) ([]byte, error)

	// GetAll returns every value in the table in no particular order.
	GetAll(ctx context.Context, table Table) ([][]byte, error)

	// Insert adds a new record and fails if the key already exists.
	Insert(ctx context.Context, table Table, key string, value []byte) error

	// Put creates or overwrites a record.
	Put(ctx context.Context, table Table, key string, value []byte) error

	// Delete removes a record. Deleting a missing key is not an error.
	Delete(ctx context.Context, table Table, key string) error

	// Update runs a read-modify-write cycle that no other write can interleave with.
	Update(ctx context.Context, table Table, key string, fn UpdateFunc) error

	// Close releases the backend.
	Close() error
}

func checkTable(table Table) error {
	if _, ok := knownTables[table]; !ok {
		return &model.StorageError{Op: "resolve table", Err: fmt.Errorf("unknown table %q", table)}
	}
	return nil
}

func notFound(table Table, key string) error {
	return fmt.Errorf("%s %q: %w", table, key, model.ErrNotFound)
}

func storageErr(op string, table Table, err error) error {
	return &model.StorageError{Op: op + " " + string(table), Err: err}
}
