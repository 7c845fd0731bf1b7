package session

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/spellbee/internal/model"
)

func sampleSession() model.TestSession {
	start := time.Date(2024, 2, 9, 15, 4, 0, 0, time.UTC)
	end := start.Add(4*time.Minute + 12*time.Second)
	return model.TestSession{
		ID:           "s1",
		Name:         "Friday  Bee",
		WordListName: "Week 3",
		StartTime:    start,
		EndTime:      &end,
		IsCompleted:  true,
		WordsAsked:   []string{"zebra", "Apple", "mango", "kiwi"},
		Attempts: []model.WordAttempt{
			{Word: "zebra", UserSpelling: "zebra", IsCorrect: true},
			{Word: "Apple", UserSpelling: "apple", IsCorrect: true},
			{Word: "mango", UserSpelling: "mangoe", IsCorrect: false},
		},
		CorrectCount:   2,
		IncorrectCount: 1,
		TotalWords:     4,
	}
}

func TestWriteText(t *testing.T) {
	s := sampleSession()
	var buf bytes.Buffer
	if err := WriteText(&buf, s); err != nil {
		t.Fatalf("write text: %v", err)
	}
	want := strings.Join([]string{
		"Session Results: Friday  Bee",
		"Date: " + FormatDate(s.StartTime),
		"Word List: Week 3",
		"Accuracy: 67%",
		"----------------------------------------",
		"",
		"CORRECTLY SPELLED WORDS (2):",
		"--------------------------",
		"Apple",
		"zebra",
		"",
		"INCORRECTLY SPELLED WORDS (1):",
		"----------------------------",
		"mango",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected report:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteTextEmptySections(t *testing.T) {
	s := sampleSession()
	s.Attempts = nil
	s.CorrectCount, s.IncorrectCount = 0, 0
	var buf bytes.Buffer
	if err := WriteText(&buf, s); err != nil {
		t.Fatalf("write text: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Accuracy: 0%") {
		t.Fatalf("expected zero accuracy:\n%s", out)
	}
	if strings.Count(out, "None") != 2 {
		t.Fatalf("expected both sections to read None:\n%s", out)
	}
}

func TestFileNames(t *testing.T) {
	s := sampleSession()
	if got := TextFileName(s); got != "Session-Results-Friday-Bee-2024-02-09.txt" {
		t.Fatalf("unexpected text file name %q", got)
	}
	if got := JSONFileName(s); got != "Session-Friday-Bee-2024-02-09.json" {
		t.Fatalf("unexpected json file name %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	s := sampleSession()
	if got := FormatDuration(s.StartTime, s.EndTime); got != "4m 12s" {
		t.Fatalf("unexpected duration %q", got)
	}
	if got := FormatDuration(s.StartTime, nil); got != "In progress" {
		t.Fatalf("unexpected open duration %q", got)
	}
}
