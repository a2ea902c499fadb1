package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/quranstudy-backend/internal/data/aggregates"
	types "github.com/yungbote/quranstudy-backend/internal/domain"
	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
)

func TestGormTxRunnerWithoutDatabase(t *testing.T) {
	err := aggregates.NewGormTxRunner(nil).InTx(context.Background(), func(dbctx.Context) error { return nil })
	assert.True(t, domainagg.IsCode(err, domainagg.CodeInternal))
}

func TestGormTxRunnerRollsBackOnBodyError(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("body failed")

	err := aggregates.NewGormTxRunner(f.db).InTx(context.Background(), func(dbc dbctx.Context) error {
		require.NoError(t, dbc.Tx.Create(&types.Qari{Name: "Rolled Back"}).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, f.db.Model(&types.Qari{}).Where("name = ?", "Rolled Back").Count(&n).Error)
	assert.Zero(t, n)
}
