package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/daghub-backend/internal/clients/redis"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

// Clients holds the optional external connections. Without REDIS_ADDR every
// field is nil and lookups are served straight from the database.
type Clients struct {
	Redis       *goredis.Client
	LookupCache redis.LookupCache
	ChangeBus   redis.ChangeBus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	if !cfg.Redis.Enabled() {
		log.Info("REDIS_ADDR not set, lookup cache and change bus disabled")
		return Clients{}, nil
	}
	rdb, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	return Clients{
		Redis:       rdb,
		LookupCache: redis.NewLookupCache(log, rdb, cfg.Redis.CacheTTL),
		ChangeBus:   redis.NewChangeBus(log, rdb, cfg.Redis.Channel),
	}, nil
}

func (c *Clients) Close() {
	if c == nil || c.Redis == nil {
		return
	}
	_ = c.Redis.Close()
}
