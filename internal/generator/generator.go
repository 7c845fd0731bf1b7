// Package generator builds the word queue of a new practice session.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// ErrAllMastered is returned when excluding mastered words leaves nothing.
var ErrAllMastered = errors.New("every word in the selection is already mastered")

// Generator orders session words.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Options controls queue construction.
type Options struct {
	// ExcludeMastered drops words whose lowercase form is mastered.
	ExcludeMastered bool
	Randomize       bool
}

// Queue returns the words to ask. The input slice is never modified.
func (g *Generator) Queue(words, mastered []string, opts Options) ([]string, error) {
	queue := Available(words, mastered, opts.ExcludeMastered)
	if len(queue) == 0 {
		if len(words) > 0 && opts.ExcludeMastered {
			return nil, ErrAllMastered
		}
		return nil, errors.New("no words to practice")
	}
	if opts.Randomize {
		g.shuffle(queue)
	}
	return queue, nil
}

// Shuffled returns a shuffled copy of words.
func (g *Generator) Shuffled(words []string) []string {
	out := append([]string{}, words...)
	g.shuffle(out)
	return out
}

func (g *Generator) shuffle(words []string) {
	g.rnd.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}

// Available returns a copy of words, without mastered ones when exclude is set.
func Available(words, mastered []string, exclude bool) []string {
	out := make([]string, 0, len(words))
	if !exclude || len(mastered) == 0 {
		return append(out, words...)
	}
	set := make(map[string]struct{}, len(mastered))
	for _, m := range mastered {
		set[strings.ToLower(m)] = struct{}{}
	}
	for _, w := range words {
		if _, ok := set[strings.ToLower(w)]; ok {
			continue
		}
		out = append(out, w)
	}
	return out
}

// DefaultSessionName names a session after its list and start time.
func DefaultSessionName(listName string, t time.Time) string {
	if strings.TrimSpace(listName) == "" {
		listName = "Practice"
	}
	return fmt.Sprintf("%s %s", listName, t.Format("2006-01-02 15:04"))
}
