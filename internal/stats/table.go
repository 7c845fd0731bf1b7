package stats

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/spellbee/internal/model"
)

const gutter = "  "

// column renders one field of T. Numeric columns are right aligned; a
// positive limit truncates long free text with an ellipsis.
type column[T any] struct {
	title   string
	numeric bool
	limit   int
	cell    func(T) string
}

var sessionColumns = []column[model.TestSession]{
	{title: "ID", cell: func(s model.TestSession) string { return s.ID }},
	{title: "Name", limit: 32, cell: func(s model.TestSession) string { return s.Name }},
	{title: "Word List", limit: 24, cell: func(s model.TestSession) string { return s.WordListName }},
	{title: "Started", cell: func(s model.TestSession) string {
		return s.StartTime.Local().Format("2006-01-02 15:04")
	}},
	{title: "Words", numeric: true, cell: func(s model.TestSession) string {
		return fmt.Sprintf("%d/%d", len(s.Attempts), len(s.WordsAsked))
	}},
	{title: "Correct", numeric: true, cell: func(s model.TestSession) string { return fmt.Sprint(s.CorrectCount) }},
	{title: "Accuracy", numeric: true, cell: func(s model.TestSession) string { return fmt.Sprintf("%d%%", s.Accuracy()) }},
	{title: "Status", cell: Status},
}

var troubleColumns = []column[WordTally]{
	{title: "Word", limit: 24, cell: func(t WordTally) string { return t.Word }},
	{title: "Missed", numeric: true, cell: func(t WordTally) string { return fmt.Sprint(t.Incorrect) }},
	{title: "Correct", numeric: true, cell: func(t WordTally) string { return fmt.Sprint(t.Correct) }},
	{title: "Accuracy", numeric: true, cell: func(t WordTally) string { return fmt.Sprintf("%.0f%%", t.Accuracy()*100) }},
}

// renderTable lays out a header line and one line per item, sizing every
// column to its widest cell by terminal display width.
func renderTable[T any](cols []column[T], items []T) []string {
	cells := make([][]string, len(items)+1)
	widths := make([]int, len(cols))
	cells[0] = make([]string, len(cols))
	for i, col := range cols {
		cells[0][i] = col.title
		widths[i] = runewidth.StringWidth(col.title)
	}
	for r, item := range items {
		row := make([]string, len(cols))
		for i, col := range cols {
			value := col.cell(item)
			if col.limit > 0 {
				value = runewidth.Truncate(value, col.limit, "…")
			}
			row[i] = value
			widths[i] = max(widths[i], runewidth.StringWidth(value))
		}
		cells[r+1] = row
	}

	lines := make([]string, 0, len(cells))
	for _, row := range cells {
		var b strings.Builder
		for i, value := range row {
			if i > 0 {
				b.WriteString(gutter)
			}
			if cols[i].numeric {
				b.WriteString(runewidth.FillLeft(value, widths[i]))
			} else {
				b.WriteString(runewidth.FillRight(value, widths[i]))
			}
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return lines
}
