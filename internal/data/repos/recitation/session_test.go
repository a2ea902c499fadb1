package recitation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/quranstudy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/quranstudy-backend/internal/domain"
	"github.com/yungbote/quranstudy-backend/internal/domain/recitation"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
)

func TestSessionRepoCreateAndMarkAnalyzed(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSessionRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "sessions-"+uuid.NewString()[:8]+"@example.com")
	s := testutil.SeedFreshSurah(t, ctx, tx)

	pending := recitation.NewPending(u.ID, s.ID, 2, "recitations/a.mp3")
	require.NoError(t, repo.Create(dbc, pending))
	require.NotZero(t, pending.ID)

	stored, err := repo.GetByID(dbc, pending.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, types.SessionPending, stored.Status)
	assert.Nil(t, stored.AccuracyScore)
	assert.NotNil(t, stored.TajwidErrors)
	require.NotNil(t, stored.Surah)
	assert.Equal(t, s.Number, stored.Surah.Number)

	analysis := types.Analysis{
		AccuracyScore: 78,
		Feedback:      types.Feedback{Overall: "ok", Strengths: []string{"rhythm"}, Improvements: []string{}},
		TajwidErrors:  []types.ErrorEntry{{Type: "ghunnah", Position: "0:15", Description: "Missing nasal sound"}},
	}
	analyzed, err := repo.MarkAnalyzed(dbc, pending.ID, analysis)
	require.NoError(t, err)
	assert.Equal(t, types.SessionAnalyzed, analyzed.Status)

	reloaded, err := repo.GetByID(dbc, pending.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.AccuracyScore)
	assert.Equal(t, 78, *reloaded.AccuracyScore)
	assert.Equal(t, "ok", reloaded.AIFeedback.Data().Overall)
	assert.Equal(t, []string{"ghunnah"}, reloaded.ErrorTypes())
	assert.Empty(t, reloaded.PronunciationErrors)

	_, err = repo.MarkAnalyzed(dbc, pending.ID, analysis)
	assert.True(t, errors.Is(err, ErrNotPending))
}

func TestSessionRepoCreateRejectsPersisted(t *testing.T) {
	db := testutil.DB(t)
	repo := NewSessionRepo(db, testutil.Logger(t))
	err := repo.Create(dbctx.From(context.Background()), &types.RecitationSession{ID: 7})
	assert.Error(t, err)
}

func TestSessionRepoSumScoresIgnoresNull(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSessionRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "sums-"+uuid.NewString()[:8]+"@example.com")
	s := testutil.SeedFreshSurah(t, ctx, tx)

	totals, err := repo.SumScores(dbc, u.ID, s.ID)
	require.NoError(t, err)
	assert.Zero(t, totals.Count)
	assert.Equal(t, 0, totals.Average())

	testutil.SeedSession(t, ctx, tx, u.ID, s.ID, testutil.PtrInt(90))
	testutil.SeedSession(t, ctx, tx, u.ID, s.ID, nil)
	testutil.SeedSession(t, ctx, tx, u.ID, s.ID, testutil.PtrInt(75))

	totals, err = repo.SumScores(dbc, u.ID, s.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 165, totals.Sum)
	assert.EqualValues(t, 2, totals.Count)
	assert.Equal(t, 82, totals.Average())
}

func TestSessionRepoListByUserPaginates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSessionRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "pages-"+uuid.NewString()[:8]+"@example.com")
	other := testutil.SeedUser(t, ctx, tx, "other-"+uuid.NewString()[:8]+"@example.com")
	s := testutil.SeedFreshSurah(t, ctx, tx)

	var ids []uint
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		row := testutil.SeedSession(t, ctx, tx, u.ID, s.ID, testutil.PtrInt(80))
		require.NoError(t, tx.Model(row).UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
		ids = append(ids, row.ID)
	}
	testutil.SeedSession(t, ctx, tx, other.ID, s.ID, testutil.PtrInt(80))

	page, total, err := repo.ListByUser(dbc, u.ID, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID, "newest first")
	assert.Equal(t, ids[3], page[1].ID)
	require.NotNil(t, page[0].Surah)

	last, _, err := repo.ListByUser(dbc, u.ID, 2, 4)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, ids[0], last[0].ID)

	none, total, err := repo.ListByUser(dbc, uuid.New(), 20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
