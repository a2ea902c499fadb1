package aggregates

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
	"github.com/yungbote/quranstudy-backend/internal/platform/keylock"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
	Locker keylock.Locker
	Now    func() time.Time
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Locker == nil {
		d.Locker = keylock.NewLocal()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	return d
}

// executeWrite runs fn in one transaction, maps the failure and reports the outcome.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)
	deps.Hooks.ObserveOperation(op, aggregateErrorStatus(mapped), time.Since(start))
	return mapped
}

// withLock holds key for the duration of fn.
func withLock(ctx context.Context, deps BaseDeps, op, key string, fn func() error) error {
	start := time.Now()
	unlock, err := deps.Locker.Lock(ctx, key)
	if err != nil {
		return MapError(op, err)
	}
	defer unlock()
	deps.Hooks.ObserveLockWait(op, time.Since(start))
	return fn()
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		return "failure"
	}
	return code
}
