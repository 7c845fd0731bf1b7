// Package model defines shared data structures.
package model

import (
	"math"
	"time"
)

// WordList is a named, ordered collection of words. The words never change
// once saved; renaming touches Name only.
type WordList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Words     []string  `json:"words"`
	CreatedAt time.Time `json:"createdAt"`
	WordCount int       `json:"wordCount"`
}

// AvailableWordList is an entry of the bundled word list manifest.
type AvailableWordList struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// SessionMode selects who judges each spelling.
type SessionMode string

const (
	// ModeStudent checks the typed spelling against the word.
	ModeStudent SessionMode = "student"
	// ModeTutor lets a tutor mark each attempt correct or incorrect.
	ModeTutor SessionMode = "tutor"
)

// ParseMode maps a config or flag value to a SessionMode.
func ParseMode(s string) (SessionMode, bool) {
	switch SessionMode(s) {
	case ModeStudent, "":
		return ModeStudent, true
	case ModeTutor:
		return ModeTutor, true
	default:
		return "", false
	}
}

// WordAttempt is one recorded guess for one word.
type WordAttempt struct {
	Word         string    `json:"word"`
	UserSpelling string    `json:"userSpelling"`
	IsCorrect    bool      `json:"isCorrect"`
	Timestamp    time.Time `json:"timestamp"`
}

// TestSession is one practice run with a fixed word queue and an append-only
// attempt log.
type TestSession struct {
	ID                       string        `json:"id"`
	Name                     string        `json:"name"`
	WordListID               string        `json:"wordListId,omitempty"`
	WordListName             string        `json:"wordListName"`
	StartTime                time.Time     `json:"startTime"`
	EndTime                  *time.Time    `json:"endTime,omitempty"`
	IsCompleted              bool          `json:"isCompleted"`
	WordsAsked               []string      `json:"wordsAsked"`
	Attempts                 []WordAttempt `json:"attempts"`
	CorrectCount             int           `json:"correctCount"`
	IncorrectCount           int           `json:"incorrectCount"`
	TotalWords               int           `json:"totalWords"`
	ExcludePreviouslyCorrect bool          `json:"excludePreviouslyCorrect"`
	Mode                     SessionMode   `json:"mode,omitempty"`
}

// Resumable reports whether the session is incomplete and still has
// unattempted words.
func (s TestSession) Resumable() bool {
	return !s.IsCompleted && len(s.Attempts) < len(s.WordsAsked)
}

// Remaining returns the number of queued words without an attempt.
func (s TestSession) Remaining() int {
	n := len(s.WordsAsked) - len(s.Attempts)
	if n < 0 {
		return 0
	}
	return n
}

// NextWord returns the next word to practice.
func (s TestSession) NextWord() (string, bool) {
	if len(s.Attempts) >= len(s.WordsAsked) {
		return "", false
	}
	return s.WordsAsked[len(s.Attempts)], true
}

// Accuracy returns the rounded percentage of correct attempts.
func (s TestSession) Accuracy() int {
	if len(s.Attempts) == 0 {
		return 0
	}
	return int(math.Round(float64(s.CorrectCount) / float64(len(s.Attempts)) * 100))
}

// SessionStats aggregates results over every completed session.
type SessionStats struct {
	TotalSessions       int      `json:"totalSessions"`
	TotalWordsAttempted int      `json:"totalWordsAttempted"`
	TotalCorrect        int      `json:"totalCorrect"`
	TotalIncorrect      int      `json:"totalIncorrect"`
	AverageAccuracy     float64  `json:"averageAccuracy"`
	MasteredWords       []string `json:"masteredWords"`
}

// Well-known preference keys.
const (
	PrefAPIKey         = "api-key"
	PrefSelectedListID = "selected-list-id"
	PrefTutorMode      = "tutor-mode"
)
