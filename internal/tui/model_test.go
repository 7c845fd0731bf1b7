package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/verte-zerg/spellbee/internal/dictionary"
	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/session"
	"github.com/verte-zerg/spellbee/internal/stats"
	"github.com/verte-zerg/spellbee/internal/storage"
)

type fakeDictionary struct {
	entry dictionary.Entry
	err   error
}

func (f fakeDictionary) Lookup(context.Context, string, string) (dictionary.Entry, error) {
	return f.entry, f.err
}

func newPractice(t *testing.T, mode model.SessionMode, words ...string) (*Model, *session.Store) {
	t.Helper()
	ctx := context.Background()
	port := storage.NewMemory()
	store := session.NewStore(port, stats.NewAggregator(port, nil), zaptest.NewLogger(t))
	id, err := store.Create(ctx, session.NewSession{Name: "Bee", WordListName: "List", Words: words, Mode: mode})
	require.NoError(t, err)
	sess, err := store.Get(ctx, id)
	require.NoError(t, err)
	return NewModel(ctx, store, *sess, Options{Log: zaptest.NewLogger(t)}), store
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(m *Model, key tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: key})
	return cmd
}

func TestPracticeFlowRecordsAndCompletes(t *testing.T) {
	m, store := newPractice(t, model.ModeStudent, "Cat", "dog")

	typeText(m, "cat")
	press(m, tea.KeyEnter)
	assert.Equal(t, phaseChecked, m.phase)
	assert.True(t, m.lastCorrect, "spelling is checked without regard to case")

	press(m, tea.KeyEnter)
	assert.Equal(t, phaseAsk, m.phase)
	assert.Equal(t, "dog", m.word)

	typeText(m, "dgo")
	press(m, tea.KeyEnter)
	assert.False(t, m.lastCorrect)
	assert.Contains(t, m.View(), `The correct spelling is "dog"`)

	press(m, tea.KeyEnter)
	assert.Equal(t, phaseConfirm, m.phase)
	press(m, tea.KeyEnter)
	assert.Equal(t, phaseDone, m.phase)

	sess, err := store.Get(context.Background(), m.Session().ID)
	require.NoError(t, err)
	assert.True(t, sess.IsCompleted)
	assert.Equal(t, 1, sess.CorrectCount)
	assert.Equal(t, 1, sess.IncorrectCount)
	assert.Equal(t, "dgo", sess.Attempts[1].UserSpelling)
}

func TestPracticeIgnoresEmptySubmission(t *testing.T) {
	m, _ := newPractice(t, model.ModeStudent, "cat")
	typeText(m, "   ")
	press(m, tea.KeyEnter)
	assert.Equal(t, phaseAsk, m.phase)
	assert.Empty(t, m.Session().Attempts)
}

func TestTutorModeMarksAttempts(t *testing.T) {
	m, _ := newPractice(t, model.ModeTutor, "yacht", "rhythm")
	assert.Contains(t, m.View(), "yacht", "tutors see the word")

	press(m, tea.KeyCtrlY)
	require.Len(t, m.Session().Attempts, 1)
	assert.True(t, m.Session().Attempts[0].IsCorrect)
	assert.Equal(t, "yacht", m.Session().Attempts[0].UserSpelling)

	press(m, tea.KeyEnter)
	typeText(m, "rythm")
	press(m, tea.KeyCtrlN)
	require.Len(t, m.Session().Attempts, 2)
	assert.False(t, m.Session().Attempts[1].IsCorrect)
	assert.Equal(t, "rythm", m.Session().Attempts[1].UserSpelling)
}

func TestStudentModeHidesWord(t *testing.T) {
	m, _ := newPractice(t, model.ModeStudent, "garden")
	m.apiKey = "key"
	m.dict = fakeDictionary{entry: dictionary.Entry{Definition: "a garden plot", Example: "the Garden grew"}}

	cmd := m.lookupCmd()
	require.NotNil(t, cmd)
	m.Update(cmd())
	view := m.View()
	assert.Contains(t, view, "6-letter word")
	assert.NotContains(t, strings.ToLower(view), "garden")
}

func TestLookupFailureDegrades(t *testing.T) {
	m, _ := newPractice(t, model.ModeStudent, "garden")
	m.apiKey = "key"
	m.dict = fakeDictionary{err: dictionary.ErrNoEntry}

	m.Update(m.lookupCmd()())
	assert.Nil(t, m.entry)
	assert.Contains(t, m.View(), "Word not found in dictionary")
	assert.Equal(t, phaseAsk, m.phase)
}

func TestResumeStartsAtNextWord(t *testing.T) {
	ctx := context.Background()
	m, store := newPractice(t, model.ModeStudent, "ant", "bee")
	require.NoError(t, store.AddAttempt(ctx, m.Session().ID, model.WordAttempt{Word: "ant", IsCorrect: true}))
	sess, err := store.Get(ctx, m.Session().ID)
	require.NoError(t, err)

	resumed := NewModel(ctx, store, *sess, Options{})
	assert.Equal(t, "bee", resumed.word)
	assert.Contains(t, resumed.renderFooter(), "Word 2/2")
}

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{session: model.TestSession{
		WordsAsked:   []string{"a", "b", "c", "d"},
		Attempts:     []model.WordAttempt{{Word: "a", IsCorrect: true}, {Word: "b"}},
		CorrectCount: 1,
		Mode:         model.ModeTutor,
	}}
	out := m.renderFooter()
	for _, want := range []string{"Word 3/4", "Progress 50%", "Correct 1 · Accuracy 50%", "Tutor mode"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}
