package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/spellbee/internal/model"
)

func openSQLite(t *testing.T) *SQLite {
	t.Helper()
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "spellbee.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func backends(t *testing.T) map[string]Port {
	return map[string]Port{
		"sqlite": openSQLite(t),
		"memory": NewMemory(),
	}
}

func TestPortGetPutDelete(t *testing.T) {
	ctx := context.Background()
	for name, port := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := port.Get(ctx, WordLists, "missing")
			require.ErrorIs(t, err, model.ErrNotFound)

			require.NoError(t, port.Put(ctx, WordLists, "a", []byte(`{"n":1}`)))
			got, err := port.Get(ctx, WordLists, "a")
			require.NoError(t, err)
			assert.JSONEq(t, `{"n":1}`, string(got))

			require.NoError(t, port.Put(ctx, WordLists, "a", []byte(`{"n":2}`)))
			got, err = port.Get(ctx, WordLists, "a")
			require.NoError(t, err)
			assert.JSONEq(t, `{"n":2}`, string(got))

			require.NoError(t, port.Delete(ctx, WordLists, "a"))
			require.NoError(t, port.Delete(ctx, WordLists, "a"), "deleting a missing key succeeds")
			_, err = port.Get(ctx, WordLists, "a")
			require.ErrorIs(t, err, model.ErrNotFound)
		})
	}
}

func TestPortGetAllEmpty(t *testing.T) {
	ctx := context.Background()
	for name, port := range backends(t) {
		t.Run(name, func(t *testing.T) {
			values, err := port.GetAll(ctx, TestSessions)
			require.NoError(t, err)
			assert.Empty(t, values)

			require.NoError(t, port.Put(ctx, TestSessions, "x", []byte(`{}`)))
			require.NoError(t, port.Put(ctx, TestSessions, "y", []byte(`{}`)))
			values, err = port.GetAll(ctx, TestSessions)
			require.NoError(t, err)
			assert.Len(t, values, 2)
		})
	}
}

func TestPortInsertRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	for name, port := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, port.Insert(ctx, Preferences, "k", []byte(`"v"`)))
			err := port.Insert(ctx, Preferences, "k", []byte(`"w"`))
			require.ErrorIs(t, err, model.ErrStorage)

			got, err := port.Get(ctx, Preferences, "k")
			require.NoError(t, err)
			assert.Equal(t, `"v"`, string(got))
		})
	}
}

func TestPortUpdate(t *testing.T) {
	ctx := context.Background()
	for name, port := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := port.Update(ctx, SessionStats, "s", func(current []byte) ([]byte, error) {
				assert.Nil(t, current)
				return []byte("1"), nil
			})
			require.NoError(t, err)

			abort := errors.New("abort")
			err = port.Update(ctx, SessionStats, "s", func(current []byte) ([]byte, error) {
				assert.Equal(t, "1", string(current))
				return nil, abort
			})
			require.ErrorIs(t, err, abort)

			got, err := port.Get(ctx, SessionStats, "s")
			require.NoError(t, err)
			assert.Equal(t, "1", string(got), "aborted update must not write")
		})
	}
}

func TestPortUpdateSerializesWriters(t *testing.T) {
	ctx := context.Background()
	const writers = 16
	for name, port := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			errs := make(chan error, writers)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- port.Update(ctx, SessionStats, "counter", func(current []byte) ([]byte, error) {
						n := 0
						if current != nil {
							parsed, err := strconv.Atoi(string(current))
							if err != nil {
								return nil, err
							}
							n = parsed
						}
						return []byte(strconv.Itoa(n + 1)), nil
					})
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}
			got, err := port.Get(ctx, SessionStats, "counter")
			require.NoError(t, err)
			assert.Equal(t, strconv.Itoa(writers), string(got))
		})
	}
}

func TestPortRejectsUnknownTable(t *testing.T) {
	ctx := context.Background()
	for name, port := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := port.Get(ctx, Table("users; DROP TABLE word_lists"), "x")
			require.ErrorIs(t, err, model.ErrStorage)
		})
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "spellbee.db")
	st, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, WordLists, "a", []byte(`{"id":"a"}`)))
	require.NoError(t, st.Close())

	st, err = OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	got, err := st.Get(ctx, WordLists, "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a"}`, string(got))
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Close())
	err := m.Put(context.Background(), WordLists, "a", []byte("{}"))
	require.ErrorIs(t, err, model.ErrStorage)
}
