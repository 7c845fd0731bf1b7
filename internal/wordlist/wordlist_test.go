package wordlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/verte-zerg/spellbee/internal/model"
)

func TestParseWordsKeepsValidLines(t *testing.T) {
	got := ParseWords("cat\n123\nDOG\n\nfish!")
	assert.Equal(t, []string{"cat", "DOG"}, got)
}

func TestParseWordsTrimsAndKeepsDuplicates(t *testing.T) {
	got := ParseWords("  cat \r\ncat\n\tBird\n")
	assert.Equal(t, []string{"cat", "cat", "Bird"}, got)
}

func TestParseWordsSurvivesVeryLongLine(t *testing.T) {
	text := "cat\n" + strings.Repeat("x", 2<<20) + "!\ndog\nfish\n"
	assert.Equal(t, []string{"cat", "dog", "fish"}, ParseWords(text))

	path := filepath.Join(t.TempDir(), "long.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	words, err := ReadWords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "fish"}, words)
}

func TestParseWordsProperties(t *testing.T) {
	line := rapid.StringMatching(`[ \ta-zA-Z0-9!]{0,12}`)
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOf(line).Draw(t, "lines")
		words := ParseWords(strings.Join(lines, "\n"))

		want := 0
		for _, l := range lines {
			if IsWord(strings.TrimSpace(l)) {
				want++
			}
		}
		if len(words) != want {
			t.Fatalf("got %d words, want %d", len(words), want)
		}
		for _, w := range words {
			if !IsWord(w) {
				t.Fatalf("non-word %q survived", w)
			}
		}
	})
}

func TestReadWords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\n\nbeta\n42\n"), 0o600))

	words, err := ReadWords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, words)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("1\n2\n"), 0o600))
	_, err = ReadWords(empty)
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = ReadWords(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}

func TestDefaultListName(t *testing.T) {
	assert.Equal(t, "week 3 words", DefaultListName("/tmp/week_3-words.txt"))
	assert.Equal(t, "plain", DefaultListName("plain"))
}
