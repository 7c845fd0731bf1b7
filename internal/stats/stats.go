// Package stats aggregates practice results and renders reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/spellbee/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// AccuracySeries returns per-session accuracy percentages of the completed
// sessions, oldest first.
func AccuracySeries(sessions []model.TestSession) []float64 {
	ordered := completedOldestFirst(sessions)
	out := make([]float64, len(ordered))
	for i, s := range ordered {
		out[i] = float64(s.Accuracy())
	}
	return out
}

// RenderSummary prints the global counters and an accuracy trend.
func RenderSummary(w io.Writer, st model.SessionStats, sessions []model.TestSession, window int) error {
	if st.TotalSessions == 0 {
		_, err := fmt.Fprintln(w, "No completed sessions yet.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", st.TotalSessions),
		fmt.Sprintf("Words attempted: %d", st.TotalWordsAttempted),
		fmt.Sprintf("Correct: %d", st.TotalCorrect),
		fmt.Sprintf("Incorrect: %d", st.TotalIncorrect),
		fmt.Sprintf("Avg Accuracy: %.2f%%", st.AverageAccuracy),
		fmt.Sprintf("Mastered words: %d", len(st.MasteredWords)),
	}
	if series := AccuracySeries(sessions); len(series) > 1 {
		lines = append(lines, fmt.Sprintf("Trend: [%s]", Sparkline(MovingAverage(series, window))))
	}
	lines = append(lines, "")
	return writeLines(w, lines)
}

// RenderSessionTable prints one row per session, newest first.
func RenderSessionTable(w io.Writer, sessions []model.TestSession) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	return writeLines(w, renderTable(sessionColumns, sessions))
}

// Status labels the session state.
func Status(s model.TestSession) string {
	switch {
	case s.IsCompleted:
		return "completed"
	case s.Resumable():
		return "in progress"
	default:
		return "incomplete"
	}
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
