package board

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrRefetchCancelled is returned by Refetch when its result was
	// discarded because a newer refetch or a cancellation superseded it.
	ErrRefetchCancelled = errors.New("refetch cancelled")

	ErrCardNotInCache = errors.New("card not in cache")
	ErrUnknownColumn  = errors.New("unknown column")
)

// Key identifies a cached query.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "/")
}

// ColumnsKey is the key of a board's column+card collection.
func ColumnsKey(boardID uuid.UUID) Key {
	return Key{"columns", "boards", boardID.String()}
}

// Fetcher loads the canonical columns of a board.
type Fetcher func(ctx context.Context, boardID uuid.UUID) ([]Column, error)

type entry struct {
	columns   []Column
	present   bool
	stale     bool
	fetchedAt time.Time

	gen    uint64
	cancel context.CancelFunc
	holds  int
}

// Cache is the client replica of board columns. Every write replaces the
// whole column set of a key, which keeps Snapshot/Restore exact.
type Cache struct {
	mu      sync.Mutex
	fetch   Fetcher
	entries map[string]*entry
	log     *logrus.Entry
}

func NewCache(fetch Fetcher, logger *logrus.Logger) *Cache {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Cache{
		fetch:   fetch,
		entries: make(map[string]*entry),
		log:     logger.WithField("component", "cache"),
	}
}

func (c *Cache) entry(key Key) *entry {
	e, ok := c.entries[key.String()]
	if !ok {
		e = &entry{}
		c.entries[key.String()] = e
	}
	return e
}

// Get returns a copy of the cached columns.
func (c *Cache) Get(key Key) ([]Column, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok || !e.present {
		return nil, false
	}
	return CloneColumns(e.columns), true
}

func (c *Cache) Set(key Key, columns []Column) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	e.columns = CloneColumns(columns)
	e.present = true
}

// Update replaces the columns of key with fn's result under the cache lock.
// fn receives a private copy; returning an error leaves the entry untouched.
func (c *Cache) Update(key Key, fn func([]Column) ([]Column, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	next, err := fn(CloneColumns(e.columns))
	if err != nil {
		return err
	}
	e.columns = next
	e.present = true
	return nil
}

// Stale reports whether key was invalidated and not refetched since.
func (c *Cache) Stale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	return ok && e.stale
}

// FindCard locates a card and its index inside its column.
func (c *Cache) FindCard(key Key, cardID uuid.UUID) (Card, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return Card{}, 0, false
	}
	for _, col := range e.columns {
		for i, card := range col.Cards {
			if card.ID == cardID {
				return card.Clone(), i, true
			}
		}
	}
	return Card{}, 0, false
}

// Snapshot is an immutable copy of one cache entry.
type Snapshot struct {
	key     Key
	columns []Column
	present bool
}

func (s Snapshot) Key() Key { return s.key }

// Columns returns a copy of the captured columns.
func (s Snapshot) Columns() []Column {
	return CloneColumns(s.columns)
}

func (c *Cache) Snapshot(key Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return Snapshot{key: key}
	}
	return Snapshot{key: key, columns: CloneColumns(e.columns), present: e.present}
}

// Restore puts the entry back exactly as captured.
func (c *Cache) Restore(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(s.key)
	e.columns = CloneColumns(s.columns)
	e.present = s.present
}

// Refetch loads the board from the fetcher and stores the result unless a
// newer refetch or CancelRefetch superseded it in the meantime. A held key
// is never overwritten: the refetch is dropped and the entry stays stale.
func (c *Cache) Refetch(ctx context.Context, boardID uuid.UUID) error {
	key := ColumnsKey(boardID)

	c.mu.Lock()
	e := c.entry(key)
	if e.holds > 0 {
		c.mu.Unlock()
		c.log.WithField("key", key.String()).Debug("skipping refetch of held key")
		return ErrRefetchCancelled
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.gen++
	gen := e.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	c.mu.Unlock()

	columns, err := c.fetch(fetchCtx, boardID)

	c.mu.Lock()
	defer c.mu.Unlock()
	cancel()
	if e.gen != gen {
		c.log.WithField("key", key.String()).Debug("discarding superseded refetch")
		return ErrRefetchCancelled
	}
	e.cancel = nil
	if e.holds > 0 {
		c.log.WithField("key", key.String()).Debug("discarding refetch of held key")
		return ErrRefetchCancelled
	}
	if err != nil {
		return err
	}
	e.columns = CloneColumns(columns)
	e.present = true
	e.stale = false
	e.fetchedAt = time.Now()
	return nil
}

// CancelRefetch aborts any in-flight refetch of key; its result is dropped
// even if the fetcher ignores the cancellation.
func (c *Cache) CancelRefetch(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return
	}
	e.cancelRefetch()
}

func (e *entry) cancelRefetch() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.gen++
}

// Hold pins key while a local mutation is unconfirmed. In-flight refetches
// are cancelled and later ones are dropped until the matching Release.
func (c *Cache) Hold(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	e.holds++
	e.cancelRefetch()
}

func (c *Cache) Release(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key.String()]; ok && e.holds > 0 {
		e.holds--
	}
}

// Held reports whether a mutation currently pins key.
func (c *Cache) Held(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	return ok && e.holds > 0
}

// Invalidate marks the board stale and refetches it.
func (c *Cache) Invalidate(ctx context.Context, boardID uuid.UUID) error {
	key := ColumnsKey(boardID)
	c.mu.Lock()
	c.entry(key).stale = true
	c.mu.Unlock()
	return c.Refetch(ctx, boardID)
}
