package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

type Config struct {
	// URL takes precedence over Addr, e.g. redis://:pass@host:6379/0.
	URL      string
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether any connection target is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.URL) != "" || strings.TrimSpace(c.Addr) != ""
}

// NewClient connects and pings. Callers own Close.
func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (*goredis.Client, error) {
	var opts *goredis.Options
	if raw := strings.TrimSpace(cfg.URL); raw != "" {
		parsed, err := goredis.ParseURL(raw)
		if err != nil {
			return nil, fmt.Errorf("parse redis URL: %w", err)
		}
		opts = parsed
	} else {
		addr := strings.TrimSpace(cfg.Addr)
		if addr == "" {
			return nil, fmt.Errorf("missing redis address")
		}
		opts = &goredis.Options{
			Addr:     addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	opts.DialTimeout = 5 * time.Second

	rdb := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.With("client", "Redis").Info("Redis connected", "addr", opts.Addr, "db", opts.DB)
	return rdb, nil
}
