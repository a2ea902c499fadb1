package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/quranstudy-backend/internal/data/repos"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	Surah     repos.SurahRepo
	Verse     repos.VerseRepo
	Qari      repos.QariRepo
	Session   repos.SessionRepo
	Progress  repos.UserProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		Surah:     repos.NewSurahRepo(db, log),
		Verse:     repos.NewVerseRepo(db, log),
		Qari:      repos.NewQariRepo(db, log),
		Session:   repos.NewSessionRepo(db, log),
		Progress:  repos.NewUserProgressRepo(db, log),
	}
}
