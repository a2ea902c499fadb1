package aggregates

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/quranstudy-backend/internal/data/repos"
	types "github.com/yungbote/quranstudy-backend/internal/domain"
	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/domain/recitation"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
)

// Validation messages are i18n keys; transport layers render them per language.
const (
	MsgRequired = "validation.required"
	MsgMin      = "validation.min"
	MsgExists   = "validation.exists"
)

type RecordInput struct {
	UserID      uuid.UUID
	SurahID     uint
	VerseNumber int
	AudioRef    string
	Analysis    types.Analysis
}

type RecordResult struct {
	Session  *types.RecitationSession
	Progress *types.UserProgress
}

// RecitationAggregate records one analyzed attempt together with its progress refold.
type RecitationAggregate interface {
	Record(ctx context.Context, in RecordInput) (*RecordResult, error)
}

type RecitationAggregateDeps struct {
	Base     BaseDeps
	Surahs   repos.SurahRepo
	Sessions repos.SessionRepo
	Progress ProgressAggregate
}

type recitationAggregate struct {
	deps     BaseDeps
	surahs   repos.SurahRepo
	sessions repos.SessionRepo
	progress ProgressAggregate
}

func NewRecitationAggregate(deps RecitationAggregateDeps) RecitationAggregate {
	return &recitationAggregate{
		deps:     deps.Base.withDefaults(),
		surahs:   deps.Surahs,
		sessions: deps.Sessions,
		progress: deps.Progress,
	}
}

// Record inserts the session as pending, applies the analysis and refolds progress,
// all in one transaction under the (user, surah) lock. Nothing is written when any
// step fails.
func (a *recitationAggregate) Record(ctx context.Context, in RecordInput) (*RecordResult, error) {
	const op = "aggregate.recitation.record"
	if in.UserID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeUnauthenticated, op, "user identity is required", nil)
	}
	if in.SurahID == 0 {
		return nil, domainagg.FieldError(op, "surah_id", MsgRequired)
	}
	if in.VerseNumber < 1 {
		return nil, domainagg.FieldError(op, "verse_number", MsgMin, 1)
	}
	if strings.TrimSpace(in.AudioRef) == "" {
		return nil, domainagg.FieldError(op, "audio_file", MsgRequired)
	}

	var out RecordResult
	err := withLock(ctx, a.deps, op, ProgressLockKey(in.UserID, in.SurahID), func() error {
		return executeWrite(ctx, a.deps, op, func(dbc dbctx.Context) error {
			ok, err := a.surahs.Exists(dbc, in.SurahID)
			if err != nil {
				return err
			}
			if !ok {
				return domainagg.FieldError(op, "surah_id", MsgExists)
			}

			pending := recitation.NewPending(in.UserID, in.SurahID, in.VerseNumber, in.AudioRef)
			if err := a.sessions.Create(dbc, pending); err != nil {
				return err
			}
			session, err := a.sessions.MarkAnalyzed(dbc, pending.ID, in.Analysis)
			if err != nil {
				return err
			}
			row, err := a.progress.Apply(dbc, session)
			if err != nil {
				return err
			}
			out = RecordResult{Session: session, Progress: row}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	a.deps.Log.Debug("Recitation recorded",
		"session_id", out.Session.ID,
		"user_id", in.UserID,
		"surah_id", in.SurahID,
		"total_sessions", out.Progress.TotalSessions,
	)
	return &out, nil
}
