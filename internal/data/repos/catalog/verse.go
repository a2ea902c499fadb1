package catalog

import (
	"gorm.io/gorm"

	types "github.com/yungbote/quranstudy-backend/internal/domain"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

type VerseRepo interface {
	ListBySurah(dbc dbctx.Context, surahID uint) ([]*types.Verse, error)
	CountBySurah(dbc dbctx.Context, surahID uint) (int64, error)
}

type verseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVerseRepo(db *gorm.DB, baseLog *logger.Logger) VerseRepo {
	return &verseRepo{db: db, log: baseLog.With("repo", "VerseRepo")}
}

// ListBySurah returns the stored verses of a surah ordered by verse number. A surah
// may have fewer stored verses than its verses_count.
func (r *verseRepo) ListBySurah(dbc dbctx.Context, surahID uint) ([]*types.Verse, error) {
	results := []*types.Verse{}
	if surahID == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("surah_id = ?", surahID).
		Order("verse_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *verseRepo) CountBySurah(dbc dbctx.Context, surahID uint) (int64, error) {
	var count int64
	if err := dbc.DB(r.db).Model(&types.Verse{}).Where("surah_id = ?", surahID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
