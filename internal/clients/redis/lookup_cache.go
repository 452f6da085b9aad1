package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

const lookupPrefix = "daghub:lookup:"

// LookupCache stores JSON encoded dimension listings under a shared prefix.
type LookupCache interface {
	// Get decodes the cached value into dest and reports whether it was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// Invalidate drops every cached listing.
	Invalidate(ctx context.Context) error
}

type lookupCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewLookupCache(log *logger.Logger, rdb *goredis.Client, ttl time.Duration) LookupCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &lookupCache{log: log.With("service", "RedisLookupCache"), rdb: rdb, ttl: ttl}
}

func (c *lookupCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, lookupPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// a payload written by an older shape is treated as a miss
		c.log.Warn("bad cached lookup payload", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (c *lookupCache) Set(ctx context.Context, key string, value any) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode lookup %s: %w", key, err)
	}
	return c.rdb.Set(ctx, lookupPrefix+key, raw, c.ttl).Err()
}

func (c *lookupCache) Invalidate(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, lookupPrefix+"*", 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Unlink(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}

// LookupKey joins key parts with ':'.
func LookupKey(parts ...string) string {
	return strings.Join(parts, ":")
}
