package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/verte-zerg/spellbee/internal/model"
)

// WordTally counts the attempts of one word across sessions.
type WordTally struct {
	Word      string
	Correct   int
	Incorrect int
}

// Accuracy returns the share of correct attempts in [0,1].
func (t WordTally) Accuracy() float64 {
	total := t.Correct + t.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(t.Correct) / float64(total)
}

// TroubleWords returns up to n words with at least one miss, most missed
// first. Words are compared without regard to case.
func TroubleWords(sessions []model.TestSession, n int) []WordTally {
	tallies := map[string]*WordTally{}
	for _, s := range sessions {
		for _, a := range s.Attempts {
			key := strings.ToLower(a.Word)
			t, ok := tallies[key]
			if !ok {
				t = &WordTally{Word: key}
				tallies[key] = t
			}
			if a.IsCorrect {
				t.Correct++
			} else {
				t.Incorrect++
			}
		}
	}
	out := make([]WordTally, 0, len(tallies))
	for _, t := range tallies {
		if t.Incorrect > 0 {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Incorrect != out[j].Incorrect {
			return out[i].Incorrect > out[j].Incorrect
		}
		if ai, aj := out[i].Accuracy(), out[j].Accuracy(); ai != aj {
			return ai < aj
		}
		return out[i].Word < out[j].Word
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// RenderTroubleWords prints the most missed words.
func RenderTroubleWords(w io.Writer, tallies []WordTally) error {
	if len(tallies) == 0 {
		_, err := fmt.Fprintln(w, "No missed words.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Most Missed Words"); err != nil {
		return err
	}
	lines := renderTable(troubleColumns, tallies)
	return writeLines(w, append(lines, ""))
}

func completedOldestFirst(sessions []model.TestSession) []model.TestSession {
	out := make([]model.TestSession, 0, len(sessions))
	for _, s := range sessions {
		if s.IsCompleted {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}
