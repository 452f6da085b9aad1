package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

// ChangeBus fans catalogue change events out to every API instance.
type ChangeBus interface {
	Publish(ctx context.Context, ev entry.ChangeEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev entry.ChangeEvent)) error
}

type changeBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewChangeBus(log *logger.Logger, rdb *goredis.Client, channel string) ChangeBus {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = "daghub:changes"
	}
	return &changeBus{log: log.With("service", "RedisChangeBus"), rdb: rdb, channel: channel}
}

func (b *changeBus) Publish(ctx context.Context, ev entry.ChangeEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis change bus not initialized")
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *changeBus) StartForwarder(ctx context.Context, onEvent func(ev entry.ChangeEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis change bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var ev entry.ChangeEvent
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.log.Warn("bad change event payload", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}
