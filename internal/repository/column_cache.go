package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"boardsync/internal/model"
)

type columnsLoader interface {
	GetBoardColumns(ctx context.Context, boardID uuid.UUID) ([]model.Column, error)
}

var errColumnsSuperseded = errors.New("columns cache entry superseded")

// ColumnCache serves board column snapshots from redis, falling back to the
// database. Card writes must Evict the board so the next read is fresh.
//
// Each board carries a version key bumped by Evict. A read-through only
// stores what it loaded if the version is unchanged, so a read racing a
// write cannot put the pre-write columns back after the eviction.
type ColumnCache struct {
	base  columnsLoader
	redis *redis.Client
	ttl   time.Duration
	log   *logrus.Entry
}

// NewColumnCache wraps base; a nil client disables caching.
func NewColumnCache(base columnsLoader, client *redis.Client, ttl time.Duration, logger *logrus.Logger) *ColumnCache {
	if base == nil {
		panic("repository.NewColumnCache: base loader is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ColumnCache{
		base:  base,
		redis: client,
		ttl:   ttl,
		log:   logger.WithField("component", "column_cache"),
	}
}

// ColumnsCacheKey mirrors the client query key ["columns","boards",id].
func ColumnsCacheKey(boardID uuid.UUID) string {
	return "columns:boards:" + boardID.String()
}

func columnsVersionKey(boardID uuid.UUID) string {
	return ColumnsCacheKey(boardID) + ":version"
}

func (c *ColumnCache) GetBoardColumns(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	if columns, ok := c.load(ctx, boardID); ok {
		return columns, nil
	}

	version := c.version(ctx, boardID)
	columns, err := c.base.GetBoardColumns(ctx, boardID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, boardID, version, columns)
	return columns, nil
}

// Evict drops the board's entry and bumps its version. Call it after the
// write is committed.
func (c *ColumnCache) Evict(ctx context.Context, boardID uuid.UUID) {
	if c.redis == nil {
		return
	}
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, columnsVersionKey(boardID))
		pipe.Del(ctx, ColumnsCacheKey(boardID))
		return nil
	})
	if err != nil {
		c.log.WithError(err).WithField("board_id", boardID).Warn("evict failed")
	}
}

// version returns the board's cache version, "" when it was never evicted.
func (c *ColumnCache) version(ctx context.Context, boardID uuid.UUID) string {
	if c.redis == nil {
		return ""
	}
	v, err := c.redis.Get(ctx, columnsVersionKey(boardID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.WithError(err).Debug("cache version read failed")
	}
	return v
}

func (c *ColumnCache) load(ctx context.Context, boardID uuid.UUID) ([]model.Column, bool) {
	if c.redis == nil {
		return nil, false
	}
	key := ColumnsCacheKey(boardID)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// fall back to the database on redis errors
			c.log.WithError(err).Debug("cache read failed")
			_ = c.redis.Del(ctx, key).Err()
		}
		return nil, false
	}
	var columns []model.Column
	if err := json.Unmarshal(data, &columns); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return nil, false
	}
	return columns, true
}

func (c *ColumnCache) store(ctx context.Context, boardID uuid.UUID, version string, columns []model.Column) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(columns)
	if err != nil {
		return
	}
	versionKey := columnsVersionKey(boardID)
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errColumnsSuperseded
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, ColumnsCacheKey(boardID), data, c.ttl)
			return nil
		})
		return err
	}, versionKey)

	switch {
	case errors.Is(err, errColumnsSuperseded), errors.Is(err, redis.TxFailedErr):
		c.log.WithField("board_id", boardID).Debug("skipping cache write: board changed during load")
	case err != nil:
		c.log.WithError(err).Debug("cache write failed")
	}
}
