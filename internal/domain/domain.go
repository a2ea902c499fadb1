package domain

import (
	"github.com/yungbote/quranstudy-backend/internal/domain/auth"
	"github.com/yungbote/quranstudy-backend/internal/domain/catalog"
	"github.com/yungbote/quranstudy-backend/internal/domain/progress"
	"github.com/yungbote/quranstudy-backend/internal/domain/recitation"
	"github.com/yungbote/quranstudy-backend/internal/domain/user"
)

type (
	User      = user.User
	UserToken = auth.UserToken

	Surah          = catalog.Surah
	Verse          = catalog.Verse
	Qari           = catalog.Qari
	RevelationType = catalog.RevelationType

	RecitationSession = recitation.Session
	SessionStatus     = recitation.Status
	ErrorEntry        = recitation.ErrorEntry
	Feedback          = recitation.Feedback
	Analysis          = recitation.Analysis

	UserProgress = progress.UserProgress
)

const (
	RevelationMeccan  = catalog.RevelationMeccan
	RevelationMedinan = catalog.RevelationMedinan
	FirstSurahNumber  = catalog.FirstSurahNumber
	LastSurahNumber   = catalog.LastSurahNumber

	SessionPending  = recitation.StatusPending
	SessionAnalyzed = recitation.StatusAnalyzed
	SessionReviewed = recitation.StatusReviewed
)

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&UserToken{},
		&Surah{},
		&Verse{},
		&Qari{},
		&RecitationSession{},
		&UserProgress{},
	}
}
