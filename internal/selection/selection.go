// Package selection tracks the current word list and its filtered view.
package selection

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/verte-zerg/spellbee/internal/model"
	"github.com/verte-zerg/spellbee/internal/wordlist"
)

// Lists is the subset of the word list store the context needs.
type Lists interface {
	Get(ctx context.Context, id string) (*model.WordList, error)
	LoadAvailableLists(ctx context.Context) []model.AvailableWordList
	LoadDefault(ctx context.Context) (*model.WordList, error)
	Ensure(ctx context.Context, entry model.AvailableWordList) (*model.WordList, error)
}

// Prefs is the subset of the preference store the context needs.
type Prefs interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Context holds the process-wide selection. It is safe for concurrent use.
type Context struct {
	lists Lists
	prefs Prefs
	log   *zap.Logger

	mu        sync.RWMutex
	current   *model.WordList
	letters   []string
	filtered  []string
	available []model.AvailableWordList
}

// New returns an empty selection context.
func New(lists Lists, prefs Prefs, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{lists: lists, prefs: prefs, log: log.Named("selection")}
}

// Load reads the manifest and restores the selected list from preferences,
// falling back to the manifest default list.
func (c *Context) Load(ctx context.Context) error {
	available := c.lists.LoadAvailableLists(ctx)
	c.mu.Lock()
	c.available = available
	c.mu.Unlock()

	id, ok, err := c.prefs.Get(ctx, model.PrefSelectedListID)
	if err != nil {
		return fmt.Errorf("failed to read selected list: %w", err)
	}
	if ok && id != "" {
		list, err := c.lists.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load selected list: %w", err)
		}
		if list != nil {
			c.setCurrent(list)
			return nil
		}
		c.log.Warn("selected word list no longer exists", zap.String("id", id))
	}

	list, err := c.lists.LoadDefault(ctx)
	if err != nil {
		return fmt.Errorf("failed to load default word list: %w", err)
	}
	if list != nil {
		c.setCurrent(list)
	}
	return nil
}

// Select makes the stored list with id current and remembers the choice.
func (c *Context) Select(ctx context.Context, id string) (*model.WordList, error) {
	list, err := c.lists.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, fmt.Errorf("word list %q: %w", id, model.ErrNotFound)
	}
	return list, c.selectList(ctx, list)
}

// SelectAvailable stores the manifest list with id if needed and selects it.
func (c *Context) SelectAvailable(ctx context.Context, id string) (*model.WordList, error) {
	c.mu.RLock()
	available := c.available
	c.mu.RUnlock()
	if available == nil {
		available = c.lists.LoadAvailableLists(ctx)
	}
	for _, entry := range available {
		if entry.ID != id {
			continue
		}
		list, err := c.lists.Ensure(ctx, entry)
		if err != nil {
			return nil, err
		}
		return list, c.selectList(ctx, list)
	}
	return nil, fmt.Errorf("available word list %q: %w", id, model.ErrNotFound)
}

func (c *Context) selectList(ctx context.Context, list *model.WordList) error {
	if err := c.prefs.Set(ctx, model.PrefSelectedListID, list.ID); err != nil {
		return fmt.Errorf("failed to save selected list: %w", err)
	}
	c.setCurrent(list)
	c.log.Info("word list selected", zap.String("id", list.ID), zap.String("name", list.Name))
	return nil
}

func (c *Context) setCurrent(list *model.WordList) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = list
	c.filtered = wordlist.FilterByLetters(list.Words, c.letters)
}

// SetLetters narrows the filtered view to words starting with letters.
// No letters shows the whole list.
func (c *Context) SetLetters(letters []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.letters = append([]string(nil), letters...)
	if c.current == nil {
		c.filtered = nil
		return
	}
	c.filtered = wordlist.FilterByLetters(c.current.Words, c.letters)
}

// Current returns a copy of the current list, or nil when none is selected.
func (c *Context) Current() *model.WordList {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil
	}
	list := *c.current
	list.Words = append([]string(nil), c.current.Words...)
	return &list
}

// Words returns the words of the current list.
func (c *Context) Words() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return []string{}
	}
	return append([]string{}, c.current.Words...)
}

// Filtered returns the filtered view of the current list.
func (c *Context) Filtered() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string{}, c.filtered...)
}

// Letters returns the active starting-letter filter.
func (c *Context) Letters() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string{}, c.letters...)
}

// AvailableLists returns the manifest entries read by Load.
func (c *Context) AvailableLists() []model.AvailableWordList {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.AvailableWordList{}, c.available...)
}
