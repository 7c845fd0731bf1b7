package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLite implements Port on a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// One connection serializes every transaction, so read-modify-write
	// cycles never interleave.
	db.SetMaxOpenConns(1)

	st := &SQLite{db: db}
	if err := applyPragmas(db); err != nil {
		st.closeQuietly()
		return nil, err
	}
	if err := migrate(db); err != nil {
		st.closeQuietly()
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) closeQuietly() {
	if cerr := s.db.Close(); cerr != nil {
		// Best-effort close on open failure.
		_ = cerr
	}
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("failed to apply %s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Get implements Port.
func (s *SQLite) Get(ctx context.Context, table Table, key string) ([]byte, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM `+string(table)+` WHERE id = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(table, key)
	}
	if err != nil {
		return nil, storageErr("get", table, err)
	}
	return data, nil
}

// GetAll implements Port.
func (s *SQLite) GetAll(ctx context.Context, table Table) ([][]byte, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM `+string(table)+` ORDER BY rowid`)
	if err != nil {
		return nil, storageErr("list", table, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	values := [][]byte{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, storageErr("list", table, err)
		}
		values = append(values, data)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list", table, err)
	}
	return values, nil
}

// Insert implements Port.
func (s *SQLite) Insert(ctx context.Context, table Table, key string, value []byte) error {
	if err := checkTable(table); err != nil {
		return err
	}
	return s.withTx(ctx, "insert", table, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM `+string(table)+` WHERE id = ?`, key).Scan(&exists)
		if err == nil {
			return storageErr("insert", table, fmt.Errorf("record %q already exists", key))
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return storageErr("insert", table, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+string(table)+` (id, data, updated_at) VALUES (?, ?, ?)`,
			key, string(value), now()); err != nil {
			return storageErr("insert", table, err)
		}
		return nil
	})
}

// Put implements Port.
func (s *SQLite) Put(ctx context.Context, table Table, key string, value []byte) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, upsertSQL(table), key, string(value), now()); err != nil {
		return storageErr("put", table, err)
	}
	return nil
}

// Delete implements Port.
func (s *SQLite) Delete(ctx context.Context, table Table, key string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+string(table)+` WHERE id = ?`, key); err != nil {
		return storageErr("delete", table, err)
	}
	return nil
}

// Update implements Port.
func (s *SQLite) Update(ctx context.Context, table Table, key string, fn UpdateFunc) error {
	if err := checkTable(table); err != nil {
		return err
	}
	return s.withTx(ctx, "update", table, func(tx *sql.Tx) error {
		var current []byte
		err := tx.QueryRowContext(ctx, `SELECT data FROM `+string(table)+` WHERE id = ?`, key).Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return storageErr("update", table, err)
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, upsertSQL(table), key, string(next), now()); err != nil {
			return storageErr("update", table, err)
		}
		return nil
	})
}

func (s *SQLite) withTx(ctx context.Context, op string, table Table, fn func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr(op, table, err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return storageErr(op, table, err)
	}
	return nil
}

func upsertSQL(table Table) string {
	return `INSERT INTO ` + string(table) + ` (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
