package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/daghub-backend/internal/platform/envutil"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	// Channel carries catalogue change events.
	Channel string
	// CacheTTL bounds how long a dimension listing stays cached.
	CacheTTL time.Duration
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		Addr:     strings.TrimSpace(envutil.String("REDIS_ADDR", "", log)),
		Password: envutil.String("REDIS_PASSWORD", "", log),
		DB:       envutil.Int("REDIS_DB", 0, log),
		Channel:  strings.TrimSpace(envutil.String("REDIS_CHANNEL", "daghub:changes", log)),
		CacheTTL: envutil.Duration("LOOKUP_CACHE_TTL", 10*time.Minute, log),
	}
}

// Enabled reports whether a redis address is configured.
func (c Config) Enabled() bool { return c.Addr != "" }

// NewClient dials redis and verifies the connection with a ping.
func NewClient(cfg Config) (*goredis.Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
