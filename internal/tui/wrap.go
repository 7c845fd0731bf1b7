package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// compareRunes styles the target word letter by letter against what was
// typed. Letters match regardless of case; letters the speller left out are
// underlined and extra typed letters are appended in the error style.
func compareRunes(target, typed []rune) []styledRune {
	n := max(len(target), len(typed))
	out := make([]styledRune, 0, n)
	for i := 0; i < n; i++ {
		var (
			displayed rune
			style     lipgloss.Style
		)
		switch {
		case i >= len(target):
			displayed = typed[i]
			style = incorrectStyle
		case i >= len(typed):
			displayed = target[i]
			style = missingStyle
		case unicode.ToLower(typed[i]) == unicode.ToLower(target[i]):
			displayed = target[i]
			style = correctStyle
		default:
			displayed = target[i]
			style = incorrectStyle
		}
		out = append(out, styledRune{
			s:     style.Render(string(displayed)),
			width: runewidth.RuneWidth(displayed),
		})
	}
	return out
}

// plainRunes splits text into runes rendered with one style, so prose can be
// wrapped the same way as compared words.
func plainRunes(text string, style lipgloss.Style) []styledRune {
	out := make([]styledRune, 0, len(text))
	for _, r := range text {
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// maskWord hides every case-insensitive occurrence of word in text so an
// example sentence does not give the spelling away.
func maskWord(text, word string) string {
	if word == "" {
		return text
	}
	lowerText := strings.ToLower(text)
	lowerWord := strings.ToLower(word)
	if len(lowerText) != len(text) || len(lowerWord) != len(word) {
		return text
	}
	var b strings.Builder
	for {
		idx := strings.Index(lowerText, lowerWord)
		if idx < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:idx])
		b.WriteString(strings.Repeat("_", len(word)))
		text = text[idx+len(word):]
		lowerText = lowerText[idx+len(word):]
	}
}
