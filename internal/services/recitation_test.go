package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/quranstudy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/quranstudy-backend/internal/domain"
	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/platform/apierr"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
)

func TestSubmitRecordsSessionAndProgress(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, fixedScores(90, 70))
	user := testutil.SeedUser(t, ctx, e.db, uniqueEmail("submit"))
	surah := testutil.SeedFreshSurah(t, ctx, e.db)
	ctx = asUser(ctx, user)

	first, err := e.recitation.Submit(ctx, SubmitInput{SurahID: surah.ID, VerseNumber: 1, Audio: wavUpload(2048)})
	require.NoError(t, err)
	assert.Equal(t, types.SessionAnalyzed, first.Session.Status)
	require.NotNil(t, first.Session.AccuracyScore)
	assert.Equal(t, 90, *first.Session.AccuracyScore)
	assert.Equal(t, 1, first.Progress.TotalSessions)
	assert.Equal(t, 90, first.Progress.AverageAccuracy)

	second, err := e.recitation.Submit(ctx, SubmitInput{SurahID: surah.ID, VerseNumber: 2, Audio: wavUpload(2048)})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Progress.TotalSessions)
	assert.Equal(t, 80, second.Progress.AverageAccuracy)
	assert.Equal(t, 0, second.Progress.VersesCompleted)

	keys, err := e.store.ListKeys(ctx, "recitations/"+user.ID.String()+"/")
	require.NoError(t, err)
	assert.NotEmpty(t, keys)
}

func TestSubmitValidatesBeforeWriting(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	user := testutil.SeedUser(t, ctx, e.db, uniqueEmail("invalid"))
	surah := testutil.SeedFreshSurah(t, ctx, e.db)
	ctx = asUser(ctx, user)

	cases := []struct {
		in    SubmitInput
		field string
		msg   string
	}{
		{SubmitInput{VerseNumber: 1, Audio: wavUpload(512)}, "surah_id", "validation.required"},
		{SubmitInput{SurahID: 999999, VerseNumber: 1, Audio: wavUpload(512)}, "surah_id", "validation.exists"},
		{SubmitInput{SurahID: surah.ID, VerseNumber: 0, Audio: wavUpload(512)}, "verse_number", "validation.min"},
		{SubmitInput{SurahID: surah.ID, VerseNumber: 1}, "audio_file", "validation.required"},
	}
	for _, tc := range cases {
		_, err := e.recitation.Submit(ctx, tc.in)
		ae, ok := domainagg.As(err)
		require.True(t, ok, "%s: %v", tc.field, err)
		assert.Equal(t, tc.field, ae.Field)
		assert.Equal(t, tc.msg, ae.Message)
	}

	keys, err := e.store.ListKeys(ctx, "recitations/"+user.ID.String()+"/")
	require.NoError(t, err)
	assert.Empty(t, keys)
	row, err := e.progress.GetByUserSurah(dbctx.From(ctx), user.ID, surah.ID)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestSubmitRequiresIdentity(t *testing.T) {
	e := newEnv(t, nil)
	_, err := e.recitation.Submit(context.Background(), SubmitInput{SurahID: 1, VerseNumber: 1, Audio: wavUpload(512)})
	ae, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.CodeUnauthenticated, ae.Code)
}

func TestHistoryPaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	user := testutil.SeedUser(t, ctx, e.db, uniqueEmail("history"))
	surah := testutil.SeedFreshSurah(t, ctx, e.db)
	var last *types.RecitationSession
	for i := 0; i < 25; i++ {
		last = testutil.SeedSession(t, ctx, e.db, user.ID, surah.ID, testutil.PtrInt(80))
	}
	ctx = asUser(ctx, user)

	page1, err := e.recitation.History(ctx, user.ID, 1)
	require.NoError(t, err)
	assert.Len(t, page1.Data, HistoryPerPage)
	assert.Equal(t, int64(25), page1.Total)
	assert.Equal(t, 2, page1.LastPage)
	assert.Equal(t, last.ID, page1.Data[0].ID)
	require.NotNil(t, page1.Data[0].Surah)

	page2, err := e.recitation.History(ctx, user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, page2.Data, 5)
	assert.Equal(t, 2, page2.CurrentPage)

	empty, err := e.recitation.History(ctx, user.ID, 9)
	require.NoError(t, err)
	assert.NotNil(t, empty.Data)
	assert.Empty(t, empty.Data)

	// an offset that would overflow is clamped instead of wrapping to page 1
	huge, err := e.recitation.History(ctx, user.ID, math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, huge.Data)
	assert.Equal(t, MaxHistoryPage, huge.CurrentPage)
	assert.Equal(t, int64(25), huge.Total)
}

func TestHistoryOfOthersNeedsAdmin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)
	owner := testutil.SeedUser(t, ctx, e.db, uniqueEmail("owner"))
	other := testutil.SeedUser(t, ctx, e.db, uniqueEmail("other"))
	admin := testutil.SeedUser(t, ctx, e.db, uniqueEmail("admin"))
	admin.IsAdmin = true

	_, err := e.recitation.History(asUser(ctx, other), owner.ID, 1)
	ae, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.CodeForbidden, ae.Code)

	_, err = e.recitation.History(asUser(ctx, admin), owner.ID, 1)
	require.NoError(t, err)

	_, err = e.recitation.History(ctx, owner.ID, 1)
	ae, ok = apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.CodeUnauthenticated, ae.Code)
}

func TestPracticePageKeysProgressBySurah(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, fixedScores(85))
	user := testutil.SeedUser(t, ctx, e.db, uniqueEmail("practice"))
	surah := testutil.SeedFreshSurah(t, ctx, e.db)
	ctx = asUser(ctx, user)

	_, err := e.recitation.Submit(ctx, SubmitInput{SurahID: surah.ID, VerseNumber: 1, Audio: wavUpload(1024)})
	require.NoError(t, err)

	page, err := e.recitation.PracticePage(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, page.Surahs)
	require.Contains(t, page.UserProgress, surah.ID)
	row := page.UserProgress[surah.ID]
	assert.Equal(t, 85, row.AverageAccuracy)
	require.NotNil(t, row.Surah)
	assert.Equal(t, surah.Number, row.Surah.Number)

	_, err = e.recitation.PracticePage(context.Background())
	assert.Error(t, err)
}
