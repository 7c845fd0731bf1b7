package historyui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/session"
	"github.com/verte-zerg/spellbee/internal/stats"
	"github.com/verte-zerg/spellbee/internal/storage"
)

type env struct {
	store *session.Store
	agg   *stats.Aggregator
	dir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	port := storage.NewMemory()
	agg := stats.NewAggregator(port, nil)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}
	return env{
		store: session.NewStore(port, agg, zaptest.NewLogger(t), session.WithClock(clock)),
		agg:   agg,
		dir:   t.TempDir(),
	}
}

func (e env) create(t *testing.T, name string, words []string, spelled ...string) string {
	t.Helper()
	ctx := context.Background()
	id, err := e.store.Create(ctx, session.NewSession{Name: name, WordListName: "Starter", Words: words})
	require.NoError(t, err)
	for i, typed := range spelled {
		require.NoError(t, e.store.AddAttempt(ctx, id, model.WordAttempt{
			Word:         words[i],
			UserSpelling: typed,
			IsCorrect:    strings.EqualFold(typed, words[i]),
		}))
	}
	return id
}

func (e env) model(t *testing.T) *Model {
	t.Helper()
	m := NewModel(context.Background(), e.store, e.agg, Options{ExportDir: e.dir, Log: zaptest.NewLogger(t)})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func key(m *Model, s string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

func TestHistoryListsNewestFirst(t *testing.T) {
	e := newEnv(t)
	e.create(t, "First", []string{"cat"})
	e.create(t, "Second", []string{"dog"})

	m := e.model(t)
	require.Len(t, m.list, 2)
	assert.Equal(t, "Second", m.list[0].Name)
	assert.Contains(t, m.View(), "Second")
}

func TestHistoryEmpty(t *testing.T) {
	e := newEnv(t)
	m := e.model(t)
	assert.Contains(t, m.View(), "No sessions found.")
	key(m, "d")
	assert.False(t, m.confirmDelete)
}

func TestHistoryDeleteNeedsConfirmation(t *testing.T) {
	e := newEnv(t)
	e.create(t, "Only", []string{"cat"})
	m := e.model(t)

	key(m, "d")
	require.True(t, m.confirmDelete)
	assert.Contains(t, m.View(), `Delete "Only"?`)
	key(m, "n")
	assert.Len(t, m.list, 1)

	key(m, "d")
	key(m, "y")
	assert.Empty(t, m.list)
	all, err := e.store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestHistoryResumeReturnsID(t *testing.T) {
	e := newEnv(t)
	id := e.create(t, "Half", []string{"cat", "dog"}, "cat")
	m := e.model(t)

	cmd := key(m, "r")
	require.NotNil(t, cmd)
	assert.Equal(t, id, m.ResumeID())
}

func TestHistoryResumeRejectsCompleted(t *testing.T) {
	e := newEnv(t)
	id := e.create(t, "Done", []string{"cat"}, "cat")
	require.NoError(t, e.store.Complete(context.Background(), id))
	m := e.model(t)

	cmd := key(m, "r")
	assert.Nil(t, cmd)
	assert.Empty(t, m.ResumeID())
	assert.Contains(t, m.View(), "cannot be resumed")
}

func TestHistoryExportWritesFiles(t *testing.T) {
	e := newEnv(t)
	e.create(t, "Spring Bee", []string{"cat", "dog"}, "cat", "dgo")
	m := e.model(t)

	key(m, "e")
	key(m, "x")

	entries, err := os.ReadDir(e.dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	sess := m.list[0]
	text, err := os.ReadFile(filepath.Join(e.dir, session.TextFileName(sess)))
	require.NoError(t, err)
	assert.Contains(t, string(text), "Session Results: Spring Bee")

	raw, err := os.ReadFile(filepath.Join(e.dir, session.JSONFileName(sess)))
	require.NoError(t, err)
	imported, err := session.ParseImport(raw)
	require.NoError(t, err)
	assert.Equal(t, sess.WordsAsked, imported.WordsAsked)
}

func TestHistoryDetailsAndOverview(t *testing.T) {
	e := newEnv(t)
	id := e.create(t, "Bee", []string{"cat", "dog"}, "cat", "dgo")
	require.NoError(t, e.store.Complete(context.Background(), id))
	m := e.model(t)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, tabDetails, m.activeTab)
	view := m.View()
	assert.Contains(t, view, "Correctly spelled (1)")
	assert.Contains(t, view, `dog (typed "dgo")`)

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, tabOverview, m.activeTab)
	view = m.View()
	assert.Contains(t, view, "Sessions")
	assert.Contains(t, view, "dog")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabSessions, m.activeTab)
}

func TestTruncateLine(t *testing.T) {
	assert.Equal(t, "spelling", truncateLine("spelling", 8))
	assert.Equal(t, "spel...", truncateLine("spelling bee", 7))
	assert.Equal(t, "sp", truncateLine("spelling", 2))
}
