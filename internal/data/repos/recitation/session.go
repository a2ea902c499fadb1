package recitation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/quranstudy-backend/internal/domain"
	"github.com/yungbote/quranstudy-backend/internal/domain/progress"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

// ErrNotPending is returned when analysis is applied to a session that already left
// the pending state.
var ErrNotPending = errors.New("recitation session is not pending")

type SessionRepo interface {
	Create(dbc dbctx.Context, s *types.RecitationSession) error
	GetByID(dbc dbctx.Context, id uint) (*types.RecitationSession, error)
	MarkAnalyzed(dbc dbctx.Context, id uint, a types.Analysis) (*types.RecitationSession, error)
	SumScores(dbc dbctx.Context, userID uuid.UUID, surahID uint) (progress.ScoreTotals, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit, offset int) ([]*types.RecitationSession, int64, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

// Create inserts a new session. Sessions are never updated wholesale afterwards.
func (r *sessionRepo) Create(dbc dbctx.Context, s *types.RecitationSession) error {
	if s == nil {
		return nil
	}
	if s.ID != 0 {
		return fmt.Errorf("session %d already persisted", s.ID)
	}
	return dbc.DB(r.db).Create(s).Error
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uint) (*types.RecitationSession, error) {
	var row types.RecitationSession
	if err := dbc.DB(r.db).Preload("Surah").Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// MarkAnalyzed moves a pending session to analyzed. The write is conditional on the
// stored status so two writers cannot both apply an analysis.
func (r *sessionRepo) MarkAnalyzed(dbc dbctx.Context, id uint, a types.Analysis) (*types.RecitationSession, error) {
	tx := dbc.DB(r.db)
	var row types.RecitationSession
	if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	if err := row.MarkAnalyzed(a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPending, err)
	}
	res := tx.Model(&row).
		Where("status = ?", types.SessionPending).
		Select("accuracy_score", "ai_feedback", "tajwid_errors", "pronunciation_errors", "status", "updated_at").
		Updates(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotPending
	}
	return &row, nil
}

// SumScores totals the non-null accuracy scores for one (user, surah).
func (r *sessionRepo) SumScores(dbc dbctx.Context, userID uuid.UUID, surahID uint) (progress.ScoreTotals, error) {
	var totals progress.ScoreTotals
	err := dbc.DB(r.db).
		Model(&types.RecitationSession{}).
		Select("COALESCE(SUM(accuracy_score), 0) AS sum, COUNT(accuracy_score) AS count").
		Where("user_id = ? AND surah_id = ?", userID, surahID).
		Scan(&totals).Error
	if err != nil {
		return progress.ScoreTotals{}, err
	}
	return totals, nil
}

// ListByUser returns one page of a user's sessions, newest first, with their surah
// loaded, plus the total session count.
func (r *sessionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit, offset int) ([]*types.RecitationSession, int64, error) {
	results := []*types.RecitationSession{}
	var total int64
	base := dbc.DB(r.db).Model(&types.RecitationSession{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return results, 0, nil
	}
	q := dbc.DB(r.db).
		Preload("Surah").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
