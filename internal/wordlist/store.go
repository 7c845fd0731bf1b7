package wordlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/spellbee/internal/fetch"
	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/storage"
)

// Store persists word lists and bootstraps the manifest default list.
type Store struct {
	port         storage.Port
	src          fetch.Source
	manifestPath string
	log          *zap.Logger
	now          func() time.Time
	newID        func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore returns a word list store. src and manifestPath locate the
// available-lists manifest and the lists it references.
func NewStore(port storage.Port, src fetch.Source, manifestPath string, log *zap.Logger, opts ...Option) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		port:         port,
		src:          src,
		manifestPath: manifestPath,
		log:          log.Named("wordlist"),
		now:          time.Now,
		newID:        func() string { return "wordlist_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores a new list under a fresh id and returns the id.
func (s *Store) Save(ctx context.Context, name string, words []string) (string, error) {
	list := s.newList(s.newID(), name, words)
	if err := s.insert(ctx, list); err != nil {
		return "", err
	}
	s.log.Info("word list saved", zap.String("id", list.ID), zap.Int("words", list.WordCount))
	return list.ID, nil
}

func (s *Store) newList(id, name string, words []string) model.WordList {
	stored := make([]string, len(words))
	copy(stored, words)
	return model.WordList{
		ID:        id,
		Name:      name,
		Words:     stored,
		CreatedAt: s.now(),
		WordCount: len(stored),
	}
}

func (s *Store) insert(ctx context.Context, list model.WordList) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode word list: %w", err)
	}
	return s.port.Insert(ctx, storage.WordLists, list.ID, raw)
}

// GetAll returns every stored list, newest first.
func (s *Store) GetAll(ctx context.Context) ([]model.WordList, error) {
	values, err := s.port.GetAll(ctx, storage.WordLists)
	if err != nil {
		return nil, err
	}
	lists := make([]model.WordList, 0, len(values))
	for _, raw := range values {
		list, err := decode(raw)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	sort.SliceStable(lists, func(i, j int) bool {
		return lists[i].CreatedAt.After(lists[j].CreatedAt)
	})
	return lists, nil
}

// Get returns the list with id, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*model.WordList, error) {
	raw, err := s.port.Get(ctx, storage.WordLists, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Delete removes the list. Missing ids succeed silently.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.port.Delete(ctx, storage.WordLists, id)
}

// Rename changes the list name and nothing else.
func (s *Store) Rename(ctx context.Context, id, newName string) error {
	return s.port.Update(ctx, storage.WordLists, id, func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, fmt.Errorf("word list %q: %w", id, model.ErrNotFound)
		}
		list, err := decode(current)
		if err != nil {
			return nil, err
		}
		list.Name = newName
		return json.Marshal(list)
	})
}

func decode(raw []byte) (model.WordList, error) {
	var list model.WordList
	if err := json.Unmarshal(raw, &list); err != nil {
		return model.WordList{}, &model.StorageError{Op: "decode word list", Err: err}
	}
	return list, nil
}
