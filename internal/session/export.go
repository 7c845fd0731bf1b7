package session

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/spellbee/internal/model"
)

const displayDateLayout = "Jan 2, 2006, 03:04 PM"

var whitespaceRun = regexp.MustCompile(`\s+`)

// FormatDate renders a session timestamp for people.
func FormatDate(t time.Time) string {
	return t.Local().Format(displayDateLayout)
}

// FormatDuration renders the time between start and end as "4m 12s", or
// "In progress" without an end.
func FormatDuration(start time.Time, end *time.Time) string {
	if end == nil {
		return "In progress"
	}
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%dm %ds", int(d/time.Minute), int(d%time.Minute/time.Second))
}

// SplitAttempts returns the attempted words split by correctness, each
// sorted alphabetically without regard to case.
func SplitAttempts(s model.TestSession) (correct, incorrect []string) {
	correct = []string{}
	incorrect = []string{}
	for _, a := range s.Attempts {
		if a.IsCorrect {
			correct = append(correct, a.Word)
		} else {
			incorrect = append(incorrect, a.Word)
		}
	}
	sortWords(correct)
	sortWords(incorrect)
	return correct, incorrect
}

func sortWords(words []string) {
	sort.SliceStable(words, func(i, j int) bool {
		li, lj := strings.ToLower(words[i]), strings.ToLower(words[j])
		if li != lj {
			return li < lj
		}
		return words[i] < words[j]
	})
}

// WriteText writes the human-readable results report.
func WriteText(w io.Writer, s model.TestSession) error {
	correct, incorrect := SplitAttempts(s)
	var b strings.Builder
	fmt.Fprintf(&b, "Session Results: %s\n", s.Name)
	fmt.Fprintf(&b, "Date: %s\n", FormatDate(s.StartTime))
	fmt.Fprintf(&b, "Word List: %s\n", s.WordListName)
	fmt.Fprintf(&b, "Accuracy: %d%%\n", s.Accuracy())
	b.WriteString(strings.Repeat("-", 40) + "\n\n")

	writeSection(&b, "CORRECTLY SPELLED WORDS", correct)
	b.WriteString("\n\n")
	writeSection(&b, "INCORRECTLY SPELLED WORDS", incorrect)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, title string, words []string) {
	header := fmt.Sprintf("%s (%d):", title, len(words))
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", len(title)+3) + "\n")
	if len(words) == 0 {
		b.WriteString("None")
		return
	}
	b.WriteString(strings.Join(words, "\n"))
}

// WriteJSON writes the full session record in the format Import accepts.
func WriteJSON(w io.Writer, s model.TestSession) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// TextFileName is the default file name of a text export.
func TextFileName(s model.TestSession) string {
	return fmt.Sprintf("Session-Results-%s-%s.txt", fileStem(s.Name), s.StartTime.UTC().Format(time.DateOnly))
}

// JSONFileName is the default file name of a JSON export.
func JSONFileName(s model.TestSession) string {
	return fmt.Sprintf("Session-%s-%s.json", fileStem(s.Name), s.StartTime.UTC().Format(time.DateOnly))
}

func fileStem(name string) string {
	stem := whitespaceRun.ReplaceAllString(name, "-")
	return strings.NewReplacer("/", "-", "\\", "-").Replace(stem)
}
