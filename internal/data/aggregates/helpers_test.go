package aggregates_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/quranstudy-backend/internal/data/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/data/repos"
	"github.com/yungbote/quranstudy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/quranstudy-backend/internal/domain"
)

type fixture struct {
	db       *gorm.DB
	now      time.Time
	base     aggregates.BaseDeps
	sessions repos.SessionRepo
	progress repos.UserProgressRepo
	agg      aggregates.ProgressAggregate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	f := &fixture{
		db:       db,
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		sessions: repos.NewSessionRepo(db, log),
		progress: repos.NewUserProgressRepo(db, log),
	}
	f.base = aggregates.BaseDeps{DB: db, Log: log, Now: func() time.Time { return f.now }}
	f.agg = aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
		Base:     f.base,
		Sessions: f.sessions,
		Progress: f.progress,
	})
	return f
}

func (f *fixture) progressRow(t *testing.T, userID uuid.UUID, surahID uint) *types.UserProgress {
	t.Helper()
	var row types.UserProgress
	if err := f.db.Where("user_id = ? AND surah_id = ?", userID, surahID).First(&row).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	return &row
}
