package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/quranstudy-backend/internal/domain/catalog"
)

// UserProgress is the derived per (user, surah) summary of every recitation session.
type UserProgress struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	UserID          uuid.UUID                   `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_progress_user_surah,priority:1" json:"user_id"`
	SurahID         uint                        `gorm:"column:surah_id;not null;uniqueIndex:idx_progress_user_surah,priority:2" json:"surah_id"`
	Surah           *catalog.Surah              `gorm:"foreignKey:SurahID;references:ID" json:"surah,omitempty"`
	VersesCompleted int                         `gorm:"column:verses_completed;not null;default:0" json:"verses_completed"`
	AverageAccuracy int                         `gorm:"column:average_accuracy;not null;default:0" json:"average_accuracy"`
	TotalSessions   int                         `gorm:"column:total_sessions;not null;default:0" json:"total_sessions"`
	WeakAreas       datatypes.JSONSlice[string] `gorm:"column:weak_areas;not null" json:"weak_areas"`
	LastPracticedAt *time.Time                  `gorm:"column:last_practiced_at" json:"last_practiced_at"`
	CreatedAt       time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time                   `gorm:"not null" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }

// New returns the zero-valued row created on a pair's first session.
func New(userID uuid.UUID, surahID uint) *UserProgress {
	return &UserProgress{
		UserID:    userID,
		SurahID:   surahID,
		WeakAreas: datatypes.JSONSlice[string]{},
	}
}

// ScoreTotals is the sum and count of present accuracy scores for one (user, surah).
type ScoreTotals struct {
	Sum   int64
	Count int64
}

// Average is the truncated mean, 0 when there are no scores.
func (t ScoreTotals) Average() int {
	if t.Count <= 0 {
		return 0
	}
	return int(t.Sum / t.Count)
}

// RecordSession folds one newly recorded session into the summary. The average is
// replaced wholesale from totals, which must already include the new session.
// VersesCompleted is left alone; nothing in the recording flow advances it.
func (p *UserProgress) RecordSession(now time.Time, totals ScoreTotals, errorTypes []string) {
	p.TotalSessions++
	at := now
	p.LastPracticedAt = &at
	p.AverageAccuracy = totals.Average()
	p.MergeWeakAreas(errorTypes...)
}

// MergeWeakAreas unions types into WeakAreas, keeping first-seen order.
func (p *UserProgress) MergeWeakAreas(types ...string) {
	seen := make(map[string]struct{}, len(p.WeakAreas)+len(types))
	merged := make(datatypes.JSONSlice[string], 0, len(p.WeakAreas)+len(types))
	for _, list := range [][]string{p.WeakAreas, types} {
		for _, t := range list {
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			merged = append(merged, t)
		}
	}
	p.WeakAreas = merged
}

func (p *UserProgress) BeforeSave(tx *gorm.DB) error {
	if p.WeakAreas == nil {
		p.WeakAreas = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (p *UserProgress) AfterFind(tx *gorm.DB) error {
	if p.WeakAreas == nil {
		p.WeakAreas = datatypes.JSONSlice[string]{}
	}
	return nil
}
