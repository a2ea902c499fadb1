package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/quranstudy-backend/internal/data/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
)

// FaultyTxRunner wraps a real runner and injects failures around the body. FailAfterBody
// is returned from inside the transaction, so the inner runner rolls back work the
// body already did.
type FaultyTxRunner struct {
	Inner aggregates.TxRunner

	mu            sync.Mutex
	FailBegin     error
	FailAfterBody error

	Calls      int
	RolledBack int
}

var _ aggregates.TxRunner = (*FaultyTxRunner)(nil)

func (r *FaultyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.Calls++
	failBegin, failAfter := r.FailBegin, r.FailAfterBody
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	err := r.Inner.InTx(ctx, func(dbc dbctx.Context) error {
		if err := fn(dbc); err != nil {
			return err
		}
		return failAfter
	})
	if err != nil {
		r.mu.Lock()
		r.RolledBack++
		r.mu.Unlock()
	}
	return err
}
