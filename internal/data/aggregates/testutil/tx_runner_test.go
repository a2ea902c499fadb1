package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
)

type inlineRunner struct{}

func (inlineRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.From(ctx))
}

func TestFaultyTxRunnerPassesThrough(t *testing.T) {
	r := &FaultyTxRunner{Inner: inlineRunner{}}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, 1, r.Calls)
	assert.Zero(t, r.RolledBack)
}

func TestFaultyTxRunnerFailBeginSkipsBody(t *testing.T) {
	boom := errors.New("begin failed")
	r := &FaultyTxRunner{Inner: inlineRunner{}, FailBegin: boom}
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		t.Fatal("body must not run")
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestFaultyTxRunnerFailAfterBody(t *testing.T) {
	boom := errors.New("commit failed")
	r := &FaultyTxRunner{Inner: inlineRunner{}, FailAfterBody: boom}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.True(t, called)
	assert.Equal(t, 1, r.RolledBack)
}
