package selection

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/verte-zerg/spellbee/internal/fetch"
	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/prefs"
	"github.com/verte-zerg/spellbee/internal/storage"
	"github.com/verte-zerg/spellbee/internal/wordlist"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type env struct {
	lists *wordlist.Store
	prefs *prefs.Store
	sel   *Context
}

func newEnv(t *testing.T) env {
	t.Helper()
	files := fstest.MapFS{
		"manifest.json": {Data: []byte(`[
			{"id": "starter", "name": "Starter", "path": "/starter.txt"},
			{"id": "animals", "name": "Animals", "path": "/animals.txt"}
		]`)},
		"starter.txt": {Data: []byte("apple\nbanana\navocado\n")},
		"animals.txt": {Data: []byte("ant\nbee\ncat\n")},
	}
	port := storage.NewMemory()
	log := zaptest.NewLogger(t)
	lists := wordlist.NewStore(port, fetch.NewResolver(files), "/manifest.json", log)
	p := prefs.NewStore(port, log)
	return env{lists: lists, prefs: p, sel: New(lists, p, log)}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.sel.Load(ctx))

	cur := e.sel.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "starter", cur.ID)
	assert.Equal(t, []string{"apple", "banana", "avocado"}, e.sel.Filtered())
	assert.Len(t, e.sel.AvailableLists(), 2)
}

func TestSelectPersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	id, err := e.lists.Save(ctx, "Mine", []string{"zeal", "yarn"})
	require.NoError(t, err)

	_, err = e.sel.Select(ctx, id)
	require.NoError(t, err)
	stored, ok, err := e.prefs.Get(ctx, model.PrefSelectedListID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, stored)

	reloaded := New(e.lists, e.prefs, nil)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, id, reloaded.Current().ID)

	_, err = e.sel.Select(ctx, "missing")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestLoadIgnoresDeletedSelection(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.prefs.Set(ctx, model.PrefSelectedListID, "deleted"))
	require.NoError(t, e.sel.Load(ctx))
	assert.Equal(t, "starter", e.sel.Current().ID)
}

func TestSelectAvailable(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.sel.Load(ctx))

	list, err := e.sel.SelectAvailable(ctx, "animals")
	require.NoError(t, err)
	assert.Equal(t, "animals", list.ID)
	assert.Equal(t, []string{"ant", "bee", "cat"}, e.sel.Words())

	_, err = e.sel.SelectAvailable(ctx, "plants")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestFilteredViewIsSubset(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.sel.Load(ctx))

	e.sel.SetLetters([]string{"a"})
	assert.Equal(t, []string{"apple", "avocado"}, e.sel.Filtered())

	_, err := e.sel.SelectAvailable(ctx, "animals")
	require.NoError(t, err)
	assert.Equal(t, []string{"ant"}, e.sel.Filtered(), "letters carry over to a new list")

	e.sel.SetLetters(nil)
	assert.Equal(t, e.sel.Words(), e.sel.Filtered())
}

func TestConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.sel.Load(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				e.sel.SetLetters([]string{"b"})
			}
			words := e.sel.Words()
			for _, w := range e.sel.Filtered() {
				assert.Contains(t, words, w)
			}
		}(i)
	}
	wg.Wait()
}
