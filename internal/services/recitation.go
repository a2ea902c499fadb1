package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/quranstudy-backend/internal/data/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/data/repos"
	types "github.com/yungbote/quranstudy-backend/internal/domain"
	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/observability"
	"github.com/yungbote/quranstudy-backend/internal/platform/apierr"
	"github.com/yungbote/quranstudy-backend/internal/platform/ctxutil"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
	"github.com/yungbote/quranstudy-backend/internal/services/analysis"
)

const HistoryPerPage = 20

// MaxHistoryPage bounds ?page= so the row offset always fits an int32.
const MaxHistoryPage = math.MaxInt32 / HistoryPerPage

type SubmitInput struct {
	SurahID     uint
	VerseNumber int
	Audio       *AudioUpload
}

type SubmitResult struct {
	Session  *types.RecitationSession `json:"session"`
	Progress *types.UserProgress      `json:"progress"`
}

// Paginated is the list envelope used by history endpoints.
type Paginated[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func NewPaginated[T any](data []T, page, perPage int, total int64) Paginated[T] {
	if data == nil {
		data = []T{}
	}
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return Paginated[T]{Data: data, CurrentPage: page, PerPage: perPage, Total: total, LastPage: last}
}

// PracticePage holds the props of the recitation page.
type PracticePage struct {
	Surahs       []*types.Surah               `json:"surahs"`
	UserProgress map[uint]*types.UserProgress `json:"userProgress"`
}

type RecitationService interface {
	// Submit stores the audio, analyzes it and records the session with its
	// progress refold for the authenticated caller.
	Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error)
	// History lists userID's sessions newest first. Callers may read their own
	// history; admins may read anyone's.
	History(ctx context.Context, userID uuid.UUID, page int) (Paginated[*types.RecitationSession], error)
	PracticePage(ctx context.Context) (*PracticePage, error)
}

type recitationService struct {
	log       *logger.Logger
	surahs    repos.SurahRepo
	sessions  repos.SessionRepo
	progress  repos.UserProgressRepo
	catalog   CatalogService
	audio     AudioService
	analyzer  analysis.Analyzer
	aggregate aggregates.RecitationAggregate
	metrics   *observability.Metrics
}

type RecitationServiceDeps struct {
	Log       *logger.Logger
	Surahs    repos.SurahRepo
	Sessions  repos.SessionRepo
	Progress  repos.UserProgressRepo
	Catalog   CatalogService
	Audio     AudioService
	Analyzer  analysis.Analyzer
	Aggregate aggregates.RecitationAggregate
	Metrics   *observability.Metrics
}

func NewRecitationService(deps RecitationServiceDeps) RecitationService {
	return &recitationService{
		log:       deps.Log.With("service", "RecitationService"),
		surahs:    deps.Surahs,
		sessions:  deps.Sessions,
		progress:  deps.Progress,
		catalog:   deps.Catalog,
		audio:     deps.Audio,
		analyzer:  deps.Analyzer,
		aggregate: deps.Aggregate,
		metrics:   deps.Metrics,
	}
}

func (rs *recitationService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	const op = "recitation.submit"
	userID, ok := ctxutil.UserID(ctx)
	if !ok {
		return nil, apierr.Unauthenticated()
	}
	if err := rs.validate(ctx, op, in); err != nil {
		rs.metrics.ObserveSubmission("rejected")
		return nil, err
	}

	ref, err := rs.audio.Store(ctx, userID, *in.Audio)
	if err != nil {
		rs.metrics.ObserveSubmission(outcomeFor(err))
		return nil, err
	}

	verdict, err := rs.analyzer.Analyze(ctx, ref.Key)
	if err != nil {
		rs.discard(ref.Key)
		rs.metrics.ObserveSubmission("failed")
		return nil, fmt.Errorf("analyze recitation: %w", err)
	}

	res, err := rs.aggregate.Record(ctx, aggregates.RecordInput{
		UserID:      userID,
		SurahID:     in.SurahID,
		VerseNumber: in.VerseNumber,
		AudioRef:    ref.Key,
		Analysis:    verdict,
	})
	if err != nil {
		rs.discard(ref.Key)
		rs.metrics.ObserveSubmission(outcomeFor(err))
		return nil, err
	}

	rs.metrics.ObserveSubmission("analyzed")
	if res.Session.AccuracyScore != nil {
		rs.metrics.ObserveAccuracy(*res.Session.AccuracyScore)
	}
	rs.log.Info("Recitation analyzed",
		"session_id", res.Session.ID,
		"user_id", userID,
		"surah_id", in.SurahID,
		"verse_number", in.VerseNumber,
	)
	return &SubmitResult{Session: res.Session, Progress: res.Progress}, nil
}

// validate runs the request rules before any bytes are written.
func (rs *recitationService) validate(ctx context.Context, op string, in SubmitInput) error {
	if in.SurahID == 0 {
		return domainagg.FieldError(op, "surah_id", aggregates.MsgRequired)
	}
	exists, err := rs.surahs.Exists(dbctx.From(ctx), in.SurahID)
	if err != nil {
		return fmt.Errorf("check surah: %w", err)
	}
	if !exists {
		return domainagg.FieldError(op, "surah_id", aggregates.MsgExists)
	}
	if in.VerseNumber < 1 {
		return domainagg.FieldError(op, "verse_number", aggregates.MsgMin, 1)
	}
	if in.Audio == nil || in.Audio.Body == nil {
		return domainagg.FieldError(op, "audio_file", aggregates.MsgRequired)
	}
	return nil
}

func (rs *recitationService) discard(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rs.audio.Discard(ctx, key); err != nil {
		rs.log.Warn("Failed to discard orphaned upload", "key", key, "error", err)
	}
}

func (rs *recitationService) History(ctx context.Context, userID uuid.UUID, page int) (Paginated[*types.RecitationSession], error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return Paginated[*types.RecitationSession]{}, apierr.Unauthenticated()
	}
	if rd.UserID != userID && !rd.IsAdmin {
		return Paginated[*types.RecitationSession]{}, apierr.Forbidden("not allowed to view this history")
	}
	if page < 1 {
		page = 1
	}
	if page > MaxHistoryPage {
		page = MaxHistoryPage
	}
	rows, total, err := rs.sessions.ListByUser(dbctx.From(ctx), userID, HistoryPerPage, (page-1)*HistoryPerPage)
	if err != nil {
		return Paginated[*types.RecitationSession]{}, fmt.Errorf("list sessions: %w", err)
	}
	return NewPaginated(rows, page, HistoryPerPage, total), nil
}

func (rs *recitationService) PracticePage(ctx context.Context) (*PracticePage, error) {
	userID, ok := ctxutil.UserID(ctx)
	if !ok {
		return nil, apierr.Unauthenticated()
	}
	surahs, err := rs.catalog.Surahs(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := rs.progress.ListByUser(dbctx.From(ctx), userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	byID := make(map[uint]*types.UserProgress, len(rows))
	for _, row := range rows {
		byID[row.SurahID] = row
	}
	return &PracticePage{Surahs: surahs, UserProgress: byID}, nil
}

func outcomeFor(err error) string {
	if e, ok := domainagg.As(err); ok && e.Code == domainagg.CodeValidation {
		return "rejected"
	}
	return "failed"
}
