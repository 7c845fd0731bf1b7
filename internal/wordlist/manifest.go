package wordlist

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/verte-zerg/spellbee/internal/model"
)

// LoadAvailableLists reads the manifest. A missing or unparsable manifest
// yields an empty slice and a warning.
func (s *Store) LoadAvailableLists(ctx context.Context) []model.AvailableWordList {
	raw, err := s.src.Fetch(ctx, s.manifestPath)
	if err != nil {
		s.log.Warn("word list manifest unavailable", zap.String("path", s.manifestPath), zap.Error(err))
		return []model.AvailableWordList{}
	}
	var lists []model.AvailableWordList
	if err := json.Unmarshal(raw, &lists); err != nil {
		s.log.Warn("word list manifest is not valid JSON", zap.String("path", s.manifestPath), zap.Error(err))
		return []model.AvailableWordList{}
	}
	valid := make([]model.AvailableWordList, 0, len(lists))
	for _, l := range lists {
		if l.ID == "" || l.Path == "" {
			s.log.Warn("skipping manifest entry without id or path", zap.String("name", l.Name))
			continue
		}
		valid = append(valid, l)
	}
	return valid
}

// LoadFromPath fetches a word list text resource and parses it.
func (s *Store) LoadFromPath(ctx context.Context, path string) ([]string, error) {
	raw, err := s.src.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list: %w", err)
	}
	words := ParseWords(string(raw))
	if len(words) == 0 {
		return nil, model.NewValidationError("no valid words found in %s", path)
	}
	return words, nil
}

// LoadDefault returns the first manifest list, storing it under the
// manifest id on first use. It returns nil when the manifest is empty.
func (s *Store) LoadDefault(ctx context.Context) (*model.WordList, error) {
	lists := s.LoadAvailableLists(ctx)
	if len(lists) == 0 {
		return nil, nil
	}
	return s.Ensure(ctx, lists[0])
}

// Ensure returns the stored copy of a manifest list, fetching and saving it
// under the manifest id when it is not stored yet.
func (s *Store) Ensure(ctx context.Context, entry model.AvailableWordList) (*model.WordList, error) {
	existing, err := s.Get(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	words, err := s.LoadFromPath(ctx, entry.Path)
	if err != nil {
		return nil, err
	}
	list := s.newList(entry.ID, entry.Name, words)
	if err := s.insert(ctx, list); err != nil {
		return nil, err
	}
	s.log.Info("manifest word list stored", zap.String("id", list.ID), zap.Int("words", list.WordCount))
	return &list, nil
}
