// Package wordlist parses, filters and stores word lists.
package wordlist

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/spellbee/internal/model"
)

// ParseWords keeps each trimmed, purely alphabetic line of text in order.
// Case and duplicates are preserved.
func ParseWords(text string) []string {
	words := []string{}
	for _, line := range strings.Split(text, "\n") {
		words = appendWord(words, line)
	}
	return words
}

// ReadWords reads one word per line from the provided file path and fails
// with a validation error when no valid word remains.
func ReadWords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	words := ParseWords(string(data))
	if len(words) == 0 {
		return nil, model.NewValidationError("no valid words found in %s", filepath.Base(path))
	}
	return words, nil
}

func appendWord(words []string, line string) []string {
	line = strings.TrimSpace(line)
	if !IsWord(line) {
		return words
	}
	return append(words, line)
}

// DefaultListName derives a list name from an uploaded file name.
func DefaultListName(filename string) string {
	base := filepath.Base(filename)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.NewReplacer("_", " ", "-", " ").Replace(base)
}
