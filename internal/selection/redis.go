package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/translation-progress-api/internal/models"
)

// Redis persists selections in Redis without expiry
type Redis struct {
	rdb    goredis.Cmdable
	prefix string
}

// NewRedis creates a Redis-backed selection store
func NewRedis(rdb goredis.Cmdable, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) key(sessionID string) string {
	return r.prefix + ":selection:" + sessionID
}

func (r *Redis) Load(ctx context.Context, sessionID string) (models.Selection, error) {
	var sel models.Selection
	raw, err := r.rdb.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return sel, nil
	}
	if err != nil {
		return sel, fmt.Errorf("redis get selection: %w", err)
	}
	if err := json.Unmarshal(raw, &sel); err != nil {
		return sel, fmt.Errorf("decode selection: %w", err)
	}
	return sel, nil
}

func (r *Redis) Save(ctx context.Context, sessionID string, sel models.Selection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key(sessionID), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set selection: %w", err)
	}
	return nil
}
