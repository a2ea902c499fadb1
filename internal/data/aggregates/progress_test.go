package aggregates_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/quranstudy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/quranstudy-backend/internal/domain"
	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
)

func TestProgressRefoldAveragesAndWeakAreas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, f.db, "refold-"+uuid.NewString()[:8]+"@example.com")
	s := testutil.SeedFreshSurah(t, ctx, f.db)

	first := testutil.SeedSession(t, ctx, f.db, u.ID, s.ID, testutil.PtrInt(90), "ghunnah", "madd")
	row, err := f.agg.Refold(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, row.TotalSessions)
	assert.Equal(t, 90, row.AverageAccuracy)
	assert.Equal(t, []string{"ghunnah", "madd"}, []string(row.WeakAreas))
	require.NotNil(t, row.LastPracticedAt)
	assert.True(t, row.LastPracticedAt.Equal(f.now))

	second := testutil.SeedSession(t, ctx, f.db, u.ID, s.ID, testutil.PtrInt(70), "makhraj", "ghunnah")
	f.now = f.now.Add(time.Hour)
	row, err = f.agg.Refold(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 2, row.TotalSessions)
	assert.Equal(t, 80, row.AverageAccuracy)
	assert.Equal(t, []string{"ghunnah", "madd", "makhraj"}, []string(row.WeakAreas))
	assert.True(t, row.LastPracticedAt.Equal(f.now))

	third := testutil.SeedSession(t, ctx, f.db, u.ID, s.ID, testutil.PtrInt(100))
	row, err = f.agg.Refold(ctx, third)
	require.NoError(t, err)
	assert.Equal(t, 3, row.TotalSessions)
	assert.Equal(t, 86, row.AverageAccuracy, "floor((90+70+100)/3)")

	unscored := testutil.SeedSession(t, ctx, f.db, u.ID, s.ID, nil)
	row, err = f.agg.Refold(ctx, unscored)
	require.NoError(t, err)
	assert.Equal(t, 4, row.TotalSessions)
	assert.Equal(t, 86, row.AverageAccuracy, "sessions without a score do not move the average")

	stored := f.progressRow(t, u.ID, s.ID)
	assert.Equal(t, 4, stored.TotalSessions)
	assert.Equal(t, 86, stored.AverageAccuracy)
	assert.Zero(t, stored.VersesCompleted, "recording never advances verses_completed")
}

func TestProgressRefoldOnlyUnscoredSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, f.db, "unscored-"+uuid.NewString()[:8]+"@example.com")
	s := testutil.SeedFreshSurah(t, ctx, f.db)

	row, err := f.agg.Refold(ctx, testutil.SeedSession(t, ctx, f.db, u.ID, s.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, row.TotalSessions)
	assert.Zero(t, row.AverageAccuracy)
	assert.NotNil(t, row.WeakAreas)
	assert.Empty(t, row.WeakAreas)
}

func TestProgressRefoldIsNotIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, f.db, "twice-"+uuid.NewString()[:8]+"@example.com")
	s := testutil.SeedFreshSurah(t, ctx, f.db)

	session := testutil.SeedSession(t, ctx, f.db, u.ID, s.ID, testutil.PtrInt(88), "madd")
	_, err := f.agg.Refold(ctx, session)
	require.NoError(t, err)
	row, err := f.agg.Refold(ctx, session)
	require.NoError(t, err)

	assert.Equal(t, 2, row.TotalSessions)
	assert.Equal(t, 88, row.AverageAccuracy)
	assert.Equal(t, []string{"madd"}, []string(row.WeakAreas))
}

func TestProgressRefoldConcurrentApplicationsAllCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, f.db, "race-"+uuid.NewString()[:8]+"@example.com")
	s := testutil.SeedFreshSurah(t, ctx, f.db)

	const n = 8
	sessions := make([]*types.RecitationSession, 0, n)
	for i := 0; i < n; i++ {
		sessions = append(sessions, testutil.SeedSession(t, ctx, f.db, u.ID, s.ID, testutil.PtrInt(70+i)))
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, sess := range sessions {
		wg.Add(1)
		go func(sess *types.RecitationSession) {
			defer wg.Done()
			_, err := f.agg.Refold(ctx, sess)
			errs <- err
		}(sess)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	row := f.progressRow(t, u.ID, s.ID)
	assert.Equal(t, n, row.TotalSessions)
	assert.Equal(t, 73, row.AverageAccuracy, "floor((70+...+77)/8)")
}

func TestProgressApplyRequiresTransaction(t *testing.T) {
	f := newFixture(t)
	_, err := f.agg.Apply(dbctx.From(context.Background()), &types.RecitationSession{})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeInternal))

	_, err = f.agg.Refold(context.Background(), nil)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))
}
