package repository_test

import (
	"context"
	"testing"
	"time"

	"boardsync/internal/model"
	"boardsync/internal/repository"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubColumns struct {
	calls   int
	columns []model.Column
	err     error
	// onLoad runs after the columns are read, before they are returned.
	onLoad func()
}

func (s *stubColumns) GetBoardColumns(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	s.calls++
	columns := s.columns
	if s.onLoad != nil {
		s.onLoad()
	}
	return columns, s.err
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestColumnCache_MissThenHit(t *testing.T) {
	// Arrange
	mr, client := newRedis(t)
	boardID := uuid.New()
	base := &stubColumns{columns: []model.Column{{
		ID: uuid.New(), BoardID: boardID, Title: "To do", Position: 1,
		Cards: []model.Card{{ID: uuid.New(), Title: "Write docs", SortOrder: 1000, Priority: model.PriorityLow}},
	}}}
	cache := repository.NewColumnCache(base, client, time.Minute, quietLogger())
	ctx := context.Background()

	// Act
	first, err := cache.GetBoardColumns(ctx, boardID)
	require.NoError(t, err)
	second, err := cache.GetBoardColumns(ctx, boardID)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, base.calls)
	assert.Equal(t, first[0].Cards[0].ID, second[0].Cards[0].ID)
	assert.Equal(t, 1000.0, second[0].Cards[0].SortOrder)
	ttl := mr.TTL(repository.ColumnsCacheKey(boardID))
	assert.True(t, ttl > 0 && ttl <= time.Minute, "unexpected TTL %v", ttl)
}

func TestColumnCache_EvictForcesReload(t *testing.T) {
	mr, client := newRedis(t)
	boardID := uuid.New()
	base := &stubColumns{columns: []model.Column{{ID: uuid.New(), BoardID: boardID, Title: "Doing"}}}
	cache := repository.NewColumnCache(base, client, time.Minute, quietLogger())
	ctx := context.Background()

	_, err := cache.GetBoardColumns(ctx, boardID)
	require.NoError(t, err)
	cache.Evict(ctx, boardID)
	assert.False(t, mr.Exists(repository.ColumnsCacheKey(boardID)))

	_, err = cache.GetBoardColumns(ctx, boardID)
	require.NoError(t, err)
	assert.Equal(t, 2, base.calls)
}

func TestColumnCache_CorruptEntryFallsBack(t *testing.T) {
	mr, client := newRedis(t)
	boardID := uuid.New()
	require.NoError(t, mr.Set(repository.ColumnsCacheKey(boardID), "{not json"))
	base := &stubColumns{columns: []model.Column{{ID: uuid.New(), Title: "Done"}}}
	cache := repository.NewColumnCache(base, client, time.Minute, quietLogger())

	columns, err := cache.GetBoardColumns(context.Background(), boardID)

	require.NoError(t, err)
	assert.Equal(t, "Done", columns[0].Title)
	assert.Equal(t, 1, base.calls)
}

func TestColumnCache_NilClientPassesThrough(t *testing.T) {
	base := &stubColumns{err: assert.AnError}
	cache := repository.NewColumnCache(base, nil, time.Minute, nil)

	_, err := cache.GetBoardColumns(context.Background(), uuid.New())
	cache.Evict(context.Background(), uuid.New())

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, base.calls)
}

func TestColumnCache_WriteDuringLoadIsNotCached(t *testing.T) {
	// Arrange
	mr, client := newRedis(t)
	boardID := uuid.New()
	stale := []model.Column{{ID: uuid.New(), BoardID: boardID, Title: "To do"}}
	fresh := []model.Column{{ID: uuid.New(), BoardID: boardID, Title: "Doing"}}
	base := &stubColumns{columns: stale}
	cache := repository.NewColumnCache(base, client, time.Minute, quietLogger())
	ctx := context.Background()

	// a card write commits and evicts while the read is still loading
	base.onLoad = func() {
		base.columns = fresh
		base.onLoad = nil
		cache.Evict(ctx, boardID)
	}

	// Act
	racing, err := cache.GetBoardColumns(ctx, boardID)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "To do", racing[0].Title)
	assert.False(t, mr.Exists(repository.ColumnsCacheKey(boardID)), "pre-write columns must not be cached")

	next, err := cache.GetBoardColumns(ctx, boardID)
	require.NoError(t, err)
	assert.Equal(t, "Doing", next[0].Title)
	assert.Equal(t, 2, base.calls)
	assert.True(t, mr.Exists(repository.ColumnsCacheKey(boardID)))
}
