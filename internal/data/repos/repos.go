package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/quranstudy-backend/internal/data/repos/auth"
	"github.com/yungbote/quranstudy-backend/internal/data/repos/catalog"
	"github.com/yungbote/quranstudy-backend/internal/data/repos/progress"
	"github.com/yungbote/quranstudy-backend/internal/data/repos/recitation"
	"github.com/yungbote/quranstudy-backend/internal/data/repos/user"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type SurahRepo = catalog.SurahRepo
type VerseRepo = catalog.VerseRepo
type QariRepo = catalog.QariRepo

type SessionRepo = recitation.SessionRepo
type UserProgressRepo = progress.UserProgressRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewSurahRepo(db *gorm.DB, baseLog *logger.Logger) SurahRepo {
	return catalog.NewSurahRepo(db, baseLog)
}
func NewVerseRepo(db *gorm.DB, baseLog *logger.Logger) VerseRepo {
	return catalog.NewVerseRepo(db, baseLog)
}
func NewQariRepo(db *gorm.DB, baseLog *logger.Logger) QariRepo {
	return catalog.NewQariRepo(db, baseLog)
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return recitation.NewSessionRepo(db, baseLog)
}
func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	return progress.NewUserProgressRepo(db, baseLog)
}
