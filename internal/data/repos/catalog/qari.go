package catalog

import (
	"gorm.io/gorm"

	types "github.com/yungbote/quranstudy-backend/internal/domain"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

type QariRepo interface {
	ListAll(dbc dbctx.Context) ([]*types.Qari, error)
	ListFeatured(dbc dbctx.Context, limit int) ([]*types.Qari, error)
}

type qariRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQariRepo(db *gorm.DB, baseLog *logger.Logger) QariRepo {
	return &qariRepo{db: db, log: baseLog.With("repo", "QariRepo")}
}

// ListAll puts featured reciters first, then sorts by name.
func (r *qariRepo) ListAll(dbc dbctx.Context) ([]*types.Qari, error) {
	results := []*types.Qari{}
	if err := dbc.DB(r.db).
		Order("is_featured DESC").
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *qariRepo) ListFeatured(dbc dbctx.Context, limit int) ([]*types.Qari, error) {
	results := []*types.Qari{}
	q := dbc.DB(r.db).Where("is_featured = ?", true).Order("name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
