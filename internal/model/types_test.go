package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestResumable(t *testing.T) {
	words := []string{"cat", "dog"}
	one := []WordAttempt{{Word: "cat", IsCorrect: true}}
	two := []WordAttempt{{Word: "cat", IsCorrect: true}, {Word: "dog"}}

	tests := []struct {
		name    string
		session TestSession
		want    bool
	}{
		{"fresh", TestSession{WordsAsked: words}, true},
		{"partial", TestSession{WordsAsked: words, Attempts: one}, true},
		{"exhausted", TestSession{WordsAsked: words, Attempts: two}, false},
		{"completed", TestSession{WordsAsked: words, Attempts: one, IsCompleted: true}, false},
		{"empty queue", TestSession{}, false},
	}
	for _, tt := range tests {
		if got := tt.session.Resumable(); got != tt.want {
			t.Errorf("%s: Resumable() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNextWordAndRemaining(t *testing.T) {
	s := TestSession{WordsAsked: []string{"cat", "dog"}, Attempts: []WordAttempt{{Word: "cat"}}}
	word, ok := s.NextWord()
	if !ok || word != "dog" {
		t.Fatalf("NextWord() = %q, %v", word, ok)
	}
	if s.Remaining() != 1 {
		t.Fatalf("Remaining() = %d, want 1", s.Remaining())
	}
	s.Attempts = append(s.Attempts, WordAttempt{Word: "dog"})
	if _, ok := s.NextWord(); ok {
		t.Fatalf("expected no next word")
	}
}

func TestAccuracy(t *testing.T) {
	s := TestSession{CorrectCount: 2, IncorrectCount: 1, Attempts: make([]WordAttempt, 3)}
	if got := s.Accuracy(); got != 67 {
		t.Fatalf("Accuracy() = %d, want 67", got)
	}
	if got := (TestSession{}).Accuracy(); got != 0 {
		t.Fatalf("Accuracy() of empty session = %d", got)
	}
}

func TestErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("add attempt: %w", ErrSessionCompleted)
	if !errors.Is(wrapped, ErrValidation) {
		t.Fatalf("expected validation kind")
	}
	if !errors.Is(wrapped, ErrSessionCompleted) {
		t.Fatalf("expected specific sentinel")
	}
	cause := errors.New("disk full")
	serr := fmt.Errorf("save: %w", &StorageError{Op: "put", Err: cause})
	if !errors.Is(serr, ErrStorage) || !errors.Is(serr, cause) {
		t.Fatalf("storage error should match kind and cause: %v", serr)
	}
	if errors.Is(serr, ErrValidation) {
		t.Fatalf("storage error must not be a validation error")
	}
}

func TestParseMode(t *testing.T) {
	if m, ok := ParseMode(""); !ok || m != ModeStudent {
		t.Fatalf("empty mode should default to student")
	}
	if m, ok := ParseMode("tutor"); !ok || m != ModeTutor {
		t.Fatalf("tutor mode not parsed")
	}
	if _, ok := ParseMode("coach"); ok {
		t.Fatalf("unknown mode accepted")
	}
}
