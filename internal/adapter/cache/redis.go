// Package cache implements the result cache on Redis. Records are stored as
// JSON under a hash of the evaluation inputs.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
)

const keyPrefix = "eval:"

// Redis implements domain.ResultCache.
type Redis struct {
	rdb *redis.Client
}

// New wraps an existing Redis client.
func New(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

// Get fetches a cached evaluation record. A miss is not an error.
func (c *Redis) Get(ctx context.Context, key string) (domain.EvaluationRecord, bool, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.EvaluationRecord{}, false, nil
	}
	if err != nil {
		return domain.EvaluationRecord{}, false, fmt.Errorf("op=cache.get: %w", err)
	}
	var rec domain.EvaluationRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.EvaluationRecord{}, false, fmt.Errorf("op=cache.get: decode: %w", err)
	}
	return rec, true, nil
}

// Set stores a record with the given TTL.
func (c *Redis) Set(ctx context.Context, key string, rec domain.EvaluationRecord, ttl time.Duration) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("op=cache.set: encode: %w", err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("op=cache.set: %w", err)
	}
	return nil
}
