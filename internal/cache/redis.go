package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/translation-progress-api/internal/models"
)

// Redis is a ProgressCache shared between API instances
type Redis struct {
	rdb    goredis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedis creates a Redis-backed cache. A ttl of zero disables caching.
func NewRedis(rdb goredis.Cmdable, prefix string, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, projectID, editionID string) (models.ProgressSnapshot, bool, error) {
	var snap models.ProgressSnapshot
	raw, err := r.rdb.Get(ctx, Key(r.prefix, projectID, editionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return snap, false, nil
	}
	if err != nil {
		return snap, false, fmt.Errorf("redis get snapshot: %w", err)
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return snap, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

func (r *Redis) Set(ctx context.Context, projectID, editionID string, snap models.ProgressSnapshot) error {
	if r.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.rdb.Set(ctx, Key(r.prefix, projectID, editionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, projectID, editionID string) error {
	if err := r.rdb.Del(ctx, Key(r.prefix, projectID, editionID)).Err(); err != nil {
		return fmt.Errorf("redis delete snapshot: %w", err)
	}
	return nil
}
