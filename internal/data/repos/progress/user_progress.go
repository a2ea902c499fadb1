package progress

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/quranstudy-backend/internal/domain"
	"github.com/yungbote/quranstudy-backend/internal/domain/progress"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

type UserProgressRepo interface {
	GetOrCreateForUpdate(dbc dbctx.Context, userID uuid.UUID, surahID uint) (*types.UserProgress, error)
	GetByUserSurah(dbc dbctx.Context, userID uuid.UUID, surahID uint) (*types.UserProgress, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserProgress, error)
	Save(dbc dbctx.Context, row *types.UserProgress) error
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	return &userProgressRepo{db: db, log: baseLog.With("repo", "UserProgressRepo")}
}

// GetOrCreateForUpdate returns the (user, surah) row locked for the rest of the
// transaction, inserting a zero row first when none exists. Must run inside a tx.
func (r *userProgressRepo) GetOrCreateForUpdate(dbc dbctx.Context, userID uuid.UUID, surahID uint) (*types.UserProgress, error) {
	if dbc.Tx == nil {
		return nil, errors.New("GetOrCreateForUpdate requires a transaction")
	}
	tx := dbc.DB(r.db)
	fresh := progress.New(userID, surahID)
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "surah_id"}},
		DoNothing: true,
	}).Create(fresh).Error; err != nil {
		return nil, err
	}
	var row types.UserProgress
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND surah_id = ?", userID, surahID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByUserSurah returns nil, nil when the pair has never been practiced.
func (r *userProgressRepo) GetByUserSurah(dbc dbctx.Context, userID uuid.UUID, surahID uint) (*types.UserProgress, error) {
	var row types.UserProgress
	err := dbc.DB(r.db).
		Where("user_id = ? AND surah_id = ?", userID, surahID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByUser returns every progress row of a user with its surah loaded.
func (r *userProgressRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserProgress, error) {
	results := []*types.UserProgress{}
	if userID == uuid.Nil {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Preload("Surah").
		Where("user_id = ?", userID).
		Order("surah_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userProgressRepo) Save(dbc dbctx.Context, row *types.UserProgress) error {
	if row == nil {
		return nil
	}
	if row.ID == 0 {
		return errors.New("save progress: row has no id")
	}
	return dbc.DB(r.db).Save(row).Error
}
