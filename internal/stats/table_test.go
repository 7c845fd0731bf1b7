package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/spellbee/internal/model"
)

func TestTroubleTableAlignsByDisplayWidth(t *testing.T) {
	lines := renderTable(troubleColumns, []WordTally{
		{Word: "cat", Correct: 12, Incorrect: 3},
		{Word: "日本", Incorrect: 10},
	})
	want := []string{
		"Word  Missed  Correct  Accuracy",
		"cat        3       12       80%",
		"日本      10        0        0%",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionTableTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("a", 40)
	lines := renderTable(sessionColumns, []model.TestSession{{
		ID:           "s1",
		Name:         long,
		WordListName: "Week 1",
		StartTime:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local),
		WordsAsked:   []string{"a", "b"},
	}})
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d", len(lines))
	}
	if strings.Contains(lines[1], long) || !strings.Contains(lines[1], "…") {
		t.Fatalf("expected truncated name: %q", lines[1])
	}
	if !strings.Contains(lines[1], "2024-05-01 10:00") || !strings.HasSuffix(lines[1], "in progress") {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	if strings.HasSuffix(lines[0], " ") {
		t.Fatalf("header keeps trailing padding: %q", lines[0])
	}
}
