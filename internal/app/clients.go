package app

import (
	"context"
	"fmt"
	"io"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/quranstudy-backend/internal/clients/redis"
	"github.com/yungbote/quranstudy-backend/internal/platform/keylock"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
	"github.com/yungbote/quranstudy-backend/internal/platform/objectstore"
)

type Clients struct {
	Redis      *goredis.Client
	Cache      *redis.Cache
	Locker     keylock.Locker
	AudioStore objectstore.Store
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis is optional; without it the catalog is uncached and locks are in-process.
	if cfg.RedisEnabled() {
		rdb, err := redis.NewClient(ctx, log, redis.Config{
			URL:      cfg.Redis.URL,
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
		out.Cache = redis.NewCache(rdb, cfg.App.Name+":catalog:")
		out.Locker = redis.NewLocker(rdb, log, cfg.Redis.LockTTL)
	} else {
		out.Locker = keylock.NewLocal()
	}

	store, err := resolveAudioStore(ctx, log, cfg.Storage)
	if err != nil {
		out.Close()
		return Clients{}, err
	}
	out.AudioStore = store
	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if closer, ok := c.AudioStore.(io.Closer); ok {
		_ = closer.Close()
	}
}
