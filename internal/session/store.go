// Package session records practice sessions and their attempts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/storage"
)

// StatsRecorder receives completed sessions and serves the aggregate.
type StatsRecorder interface {
	OnSessionCompleted(ctx context.Context, s model.TestSession) error
	Get(ctx context.Context) (model.SessionStats, error)
}

// NewSession describes a session to create. Words must already be filtered
// and ordered the way they will be asked.
type NewSession struct {
	Name                     string
	WordListID               string
	WordListName             string
	Words                    []string
	ExcludePreviouslyCorrect bool
	Mode                     model.SessionMode
}

// Store persists test sessions.
type Store struct {
	port  storage.Port
	stats StatsRecorder
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for start, end and attempt times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore returns a session store that reports completions to stats.
func NewStore(port storage.Port, stats StatsRecorder, log *zap.Logger, opts ...Option) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		port:  port,
		stats: stats,
		log:   log.Named("session"),
		now:   time.Now,
		newID: func() string { return "session_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new session and returns its id.
func (s *Store) Create(ctx context.Context, ns NewSession) (string, error) {
	mode := ns.Mode
	if mode == "" {
		mode = model.ModeStudent
	}
	words := make([]string, len(ns.Words))
	copy(words, ns.Words)
	sess := model.TestSession{
		ID:                       s.newID(),
		Name:                     ns.Name,
		WordListID:               ns.WordListID,
		WordListName:             ns.WordListName,
		StartTime:                s.now(),
		WordsAsked:               words,
		Attempts:                 []model.WordAttempt{},
		TotalWords:               len(words),
		ExcludePreviouslyCorrect: ns.ExcludePreviouslyCorrect,
		Mode:                     mode,
	}
	if err := s.insert(ctx, sess); err != nil {
		return "", err
	}
	s.log.Info("session created", zap.String("id", sess.ID), zap.Int("words", sess.TotalWords))
	return sess.ID, nil
}

func (s *Store) insert(ctx context.Context, sess model.TestSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.port.Insert(ctx, storage.TestSessions, sess.ID, raw)
}

// Get returns the session with id, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*model.TestSession, error) {
	raw, err := s.port.Get(ctx, storage.TestSessions, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sess, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// GetAll returns every session, newest first.
func (s *Store) GetAll(ctx context.Context) ([]model.TestSession, error) {
	values, err := s.port.GetAll(ctx, storage.TestSessions)
	if err != nil {
		return nil, err
	}
	sessions := make([]model.TestSession, 0, len(values))
	for _, raw := range values {
		sess, err := decode(raw)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	SortByRecency(sessions)
	return sessions, nil
}

// SortByRecency orders sessions by start time, newest first.
func SortByRecency(sessions []model.TestSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
}

// LatestResumable returns the most recently started resumable session.
func LatestResumable(sessions []model.TestSession) (model.TestSession, bool) {
	var (
		best  model.TestSession
		found bool
	)
	for _, sess := range sessions {
		if !sess.Resumable() {
			continue
		}
		if !found || sess.StartTime.After(best.StartTime) {
			best = sess
			found = true
		}
	}
	return best, found
}

// AddAttempt appends one attempt and bumps the matching counter. Completed
// sessions and sessions without unattempted words reject the write.
func (s *Store) AddAttempt(ctx context.Context, id string, attempt model.WordAttempt) error {
	if attempt.Timestamp.IsZero() {
		attempt.Timestamp = s.now()
	}
	err := s.port.Update(ctx, storage.TestSessions, id, func(current []byte) ([]byte, error) {
		sess, err := decodeCurrent(id, current)
		if err != nil {
			return nil, err
		}
		if sess.IsCompleted {
			return nil, model.ErrSessionCompleted
		}
		if len(sess.Attempts) >= len(sess.WordsAsked) {
			return nil, model.ErrQueueExhausted
		}
		sess.Attempts = append(sess.Attempts, attempt)
		if attempt.IsCorrect {
			sess.CorrectCount++
		} else {
			sess.IncorrectCount++
		}
		return json.Marshal(sess)
	})
	if err != nil {
		return err
	}
	s.log.Debug("attempt recorded",
		zap.String("id", id),
		zap.String("word", attempt.Word),
		zap.Bool("correct", attempt.IsCorrect),
	)
	return nil
}

// Complete marks the session completed and feeds it to the statistics
// aggregate. The session stays completed when aggregation fails.
func (s *Store) Complete(ctx context.Context, id string) error {
	var done model.TestSession
	err := s.port.Update(ctx, storage.TestSessions, id, func(current []byte) ([]byte, error) {
		sess, err := decodeCurrent(id, current)
		if err != nil {
			return nil, err
		}
		if sess.IsCompleted {
			return nil, model.ErrSessionCompleted
		}
		end := s.now()
		sess.IsCompleted = true
		sess.EndTime = &end
		done = sess
		return json.Marshal(sess)
	})
	if err != nil {
		return err
	}
	s.log.Info("session completed",
		zap.String("id", id),
		zap.Int("attempts", len(done.Attempts)),
		zap.Int("correct", done.CorrectCount),
	)
	if s.stats == nil {
		return nil
	}
	if err := s.stats.OnSessionCompleted(ctx, done); err != nil {
		s.log.Error("statistics update failed", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("session completed but statistics were not updated: %w", err)
	}
	return nil
}

// Delete removes the session. Statistics are left untouched.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.port.Delete(ctx, storage.TestSessions, id)
}

// GetMasteredWords returns every word ever spelled correctly in a completed
// session, lowercased.
func (s *Store) GetMasteredWords(ctx context.Context) ([]string, error) {
	if s.stats == nil {
		return []string{}, nil
	}
	st, err := s.stats.Get(ctx)
	if err != nil {
		return nil, err
	}
	return st.MasteredWords, nil
}

// Import stores a previously exported session under a new id. Imported
// results are not folded into statistics.
func (s *Store) Import(ctx context.Context, data []byte) (string, error) {
	sess, err := ParseImport(data)
	if err != nil {
		return "", err
	}
	now := s.now()
	sess.ID = s.newID()
	sess.Name += " (Imported)"
	sess.StartTime = now
	sess.EndTime = nil
	if sess.IsCompleted {
		sess.EndTime = &now
	}
	if err := s.insert(ctx, sess); err != nil {
		return "", err
	}
	s.log.Info("session imported", zap.String("id", sess.ID), zap.Int("attempts", len(sess.Attempts)))
	return sess.ID, nil
}

func decodeCurrent(id string, current []byte) (model.TestSession, error) {
	if current == nil {
		return model.TestSession{}, fmt.Errorf("session %q: %w", id, model.ErrNotFound)
	}
	return decode(current)
}

func decode(raw []byte) (model.TestSession, error) {
	var sess model.TestSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return model.TestSession{}, &model.StorageError{Op: "decode session", Err: err}
	}
	if sess.Attempts == nil {
		sess.Attempts = []model.WordAttempt{}
	}
	return sess, nil
}
