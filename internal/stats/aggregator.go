package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/storage"
)

// GlobalKey is the storage key of the single statistics record.
const GlobalKey = "global_stats"

type record struct {
	ID string `json:"id"`
	model.SessionStats
}

// Aggregator maintains the running statistics over completed sessions.
type Aggregator struct {
	port storage.Port
	log  *zap.Logger
}

// NewAggregator returns an aggregator over port.
func NewAggregator(port storage.Port, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{port: port, log: log.Named("stats")}
}

// Get returns the current statistics. A fresh store yields zero counters and
// an empty mastered set.
func (a *Aggregator) Get(ctx context.Context) (model.SessionStats, error) {
	raw, err := a.port.Get(ctx, storage.SessionStats, GlobalKey)
	if errors.Is(err, model.ErrNotFound) {
		return emptyStats(), nil
	}
	if err != nil {
		return model.SessionStats{}, err
	}
	return decode(raw)
}

// OnSessionCompleted folds one completed session into the statistics.
// Mastered words are only ever added.
func (a *Aggregator) OnSessionCompleted(ctx context.Context, s model.TestSession) error {
	var updated model.SessionStats
	err := a.port.Update(ctx, storage.SessionStats, GlobalKey, func(current []byte) ([]byte, error) {
		st, err := decodeOrEmpty(current)
		if err != nil {
			return nil, err
		}
		st = Fold(st, s)
		updated = st
		return encode(st)
	})
	if err != nil {
		return err
	}
	a.log.Info("statistics updated",
		zap.String("session", s.ID),
		zap.Int("sessions", updated.TotalSessions),
		zap.Int("mastered", len(updated.MasteredWords)),
	)
	return nil
}

// Rebuild recomputes the counters from the completed sessions given and
// merges their correct words into the mastered set, which keeps every word
// it already held.
func (a *Aggregator) Rebuild(ctx context.Context, sessions []model.TestSession) (model.SessionStats, error) {
	var rebuilt model.SessionStats
	err := a.port.Update(ctx, storage.SessionStats, GlobalKey, func(current []byte) ([]byte, error) {
		prev, err := decodeOrEmpty(current)
		if err != nil {
			return nil, err
		}
		st := emptyStats()
		st.MasteredWords = append(st.MasteredWords, prev.MasteredWords...)
		for _, s := range sessions {
			if !s.IsCompleted {
				continue
			}
			st = Fold(st, s)
		}
		rebuilt = st
		return encode(st)
	})
	if err != nil {
		return model.SessionStats{}, err
	}
	a.log.Info("statistics rebuilt", zap.Int("sessions", rebuilt.TotalSessions))
	return rebuilt, nil
}

// Fold returns st with session s added.
func Fold(st model.SessionStats, s model.TestSession) model.SessionStats {
	st.TotalSessions++
	st.TotalWordsAttempted += len(s.Attempts)
	st.TotalCorrect += s.CorrectCount
	st.TotalIncorrect += s.IncorrectCount
	st.AverageAccuracy = 0
	if st.TotalWordsAttempted > 0 {
		st.AverageAccuracy = float64(st.TotalCorrect) / float64(st.TotalWordsAttempted) * 100
	}

	mastered := make([]string, len(st.MasteredWords), len(st.MasteredWords)+len(s.Attempts))
	copy(mastered, st.MasteredWords)
	seen := make(map[string]struct{}, len(mastered))
	for _, w := range mastered {
		seen[w] = struct{}{}
	}
	for _, attempt := range s.Attempts {
		if !attempt.IsCorrect {
			continue
		}
		w := strings.ToLower(attempt.Word)
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		mastered = append(mastered, w)
	}
	st.MasteredWords = mastered
	return st
}

func emptyStats() model.SessionStats {
	return model.SessionStats{MasteredWords: []string{}}
}

func decodeOrEmpty(raw []byte) (model.SessionStats, error) {
	if raw == nil {
		return emptyStats(), nil
	}
	return decode(raw)
}

func decode(raw []byte) (model.SessionStats, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.SessionStats{}, &model.StorageError{Op: "decode statistics", Err: err}
	}
	if rec.MasteredWords == nil {
		rec.MasteredWords = []string{}
	}
	return rec.SessionStats, nil
}

func encode(st model.SessionStats) ([]byte, error) {
	raw, err := json.Marshal(record{ID: GlobalKey, SessionStats: st})
	if err != nil {
		return nil, fmt.Errorf("failed to encode statistics: %w", err)
	}
	return raw, nil
}
