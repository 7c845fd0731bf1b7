// Package prefs persists small scalar settings keyed by string.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/storage"
)

type record struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Store reads and writes preferences.
type Store struct {
	port storage.Port
	log  *zap.Logger
}

// NewStore returns a preference store over port.
func NewStore(port storage.Port, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{port: port, log: log.Named("prefs")}
}

// Get returns the stored value and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	raw, err := s.port.Get(ctx, storage.Preferences, key)
	if errors.Is(err, model.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return "", false, &model.StorageError{Op: "decode preference " + key, Err: err}
	}
	return rec.Value, true, nil
}

// Set overwrites the value for key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	raw, err := json.Marshal(record{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("failed to encode preference: %w", err)
	}
	if err := s.port.Put(ctx, storage.Preferences, key, raw); err != nil {
		return err
	}
	s.log.Debug("preference saved", zap.String("key", key))
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.port.Delete(ctx, storage.Preferences, key)
}
