package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a keylock.Locker shared by every API instance. A holder that dies keeps
// the key until ttl expires.
type Locker struct {
	rdb    goredis.Cmdable
	log    *logger.Logger
	prefix string
	ttl    time.Duration
	poll   time.Duration
}

func NewLocker(rdb goredis.Cmdable, log *logger.Logger, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Locker{
		rdb:    rdb,
		log:    log.With("client", "RedisLocker"),
		prefix: "lock:",
		ttl:    ttl,
		poll:   25 * time.Millisecond,
	}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	full := l.prefix + key
	token := uuid.NewString()
	wait := l.poll
	for {
		ok, err := l.rdb.SetNX(ctx, full, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		if wait < 250*time.Millisecond {
			wait *= 2
		}
	}

	return func() {
		// release must outlive a cancelled request context
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(relCtx, l.rdb, []string{full}, token).Err(); err != nil {
			l.log.Warn("Lock release failed", "key", key, "error", err)
		}
	}, nil
}
