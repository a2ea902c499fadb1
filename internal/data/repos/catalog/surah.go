package catalog

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/quranstudy-backend/internal/domain"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

type SurahRepo interface {
	ListAll(dbc dbctx.Context) ([]*types.Surah, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Surah, error)
	GetByNumber(dbc dbctx.Context, number int) (*types.Surah, error)
	Exists(dbc dbctx.Context, id uint) (bool, error)
}

type surahRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSurahRepo(db *gorm.DB, baseLog *logger.Logger) SurahRepo {
	return &surahRepo{db: db, log: baseLog.With("repo", "SurahRepo")}
}

// ListAll returns every surah in mushaf order.
func (r *surahRepo) ListAll(dbc dbctx.Context) ([]*types.Surah, error) {
	var results []*types.Surah
	if err := dbc.DB(r.db).Order("number ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByID returns nil, nil when the surah does not exist.
func (r *surahRepo) GetByID(dbc dbctx.Context, id uint) (*types.Surah, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Surah
	if err := dbc.DB(r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *surahRepo) GetByNumber(dbc dbctx.Context, number int) (*types.Surah, error) {
	var row types.Surah
	if err := dbc.DB(r.db).Where("number = ?", number).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *surahRepo) Exists(dbc dbctx.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	var count int64
	if err := dbc.DB(r.db).Model(&types.Surah{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
