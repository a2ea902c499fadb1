package aggregates

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
)

// TxRunner opens the transaction an aggregate write runs in.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db   *gorm.DB
	opts []*sql.TxOptions
}

// NewGormTxRunner runs fn inside db.Transaction. opts, when given, set the isolation
// level; sqlite ignores anything but the default.
func NewGormTxRunner(db *gorm.DB, opts ...*sql.TxOptions) TxRunner {
	return &gormTxRunner{db: db, opts: opts}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	const op = "aggregate.tx"
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "transaction runner has no database", nil)
	}
	var bodyErr error
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bodyErr = fn(dbctx.Context{Ctx: ctx, Tx: tx})
		return bodyErr
	}, r.opts...)
	if err != nil && bodyErr == nil {
		// begin or commit failed; the body's own errors are already coded
		return MapError(op, err)
	}
	return err
}
