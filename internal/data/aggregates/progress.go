package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/quranstudy-backend/internal/data/repos"
	types "github.com/yungbote/quranstudy-backend/internal/domain"
	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
)

// ProgressAggregate folds recorded sessions into the per (user, surah) summary.
type ProgressAggregate interface {
	// Apply refolds the summary for session inside the caller's transaction. The
	// caller must hold ProgressLockKey for the pair.
	Apply(dbc dbctx.Context, session *types.RecitationSession) (*types.UserProgress, error)
	// Refold takes the pair lock and runs Apply in its own transaction.
	Refold(ctx context.Context, session *types.RecitationSession) (*types.UserProgress, error)
}

type ProgressAggregateDeps struct {
	Base     BaseDeps
	Sessions repos.SessionRepo
	Progress repos.UserProgressRepo
}

type progressAggregate struct {
	deps BaseDeps
	sess repos.SessionRepo
	prog repos.UserProgressRepo
}

func NewProgressAggregate(deps ProgressAggregateDeps) ProgressAggregate {
	base := deps.Base.withDefaults()
	return &progressAggregate{
		deps: base,
		sess: deps.Sessions,
		prog: deps.Progress,
	}
}

// ProgressLockKey names the lock that serializes refolds of one (user, surah).
func ProgressLockKey(userID uuid.UUID, surahID uint) string {
	return fmt.Sprintf("progress:%s:%d", userID, surahID)
}

func (a *progressAggregate) Apply(dbc dbctx.Context, session *types.RecitationSession) (*types.UserProgress, error) {
	const op = "aggregate.progress.apply"
	if session == nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "session is required", nil)
	}
	if dbc.Tx == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "apply requires a transaction", nil)
	}

	row, err := a.prog.GetOrCreateForUpdate(dbc, session.UserID, session.SurahID)
	if err != nil {
		return nil, MapError(op, err)
	}
	totals, err := a.sess.SumScores(dbc, session.UserID, session.SurahID)
	if err != nil {
		return nil, MapError(op, err)
	}
	row.RecordSession(a.deps.Now(), totals, session.ErrorTypes())
	if err := a.prog.Save(dbc, row); err != nil {
		return nil, MapError(op, err)
	}
	return row, nil
}

func (a *progressAggregate) Refold(ctx context.Context, session *types.RecitationSession) (*types.UserProgress, error) {
	const op = "aggregate.progress.refold"
	if session == nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "session is required", nil)
	}
	var out *types.UserProgress
	err := withLock(ctx, a.deps, op, ProgressLockKey(session.UserID, session.SurahID), func() error {
		return executeWrite(ctx, a.deps, op, func(dbc dbctx.Context) error {
			row, err := a.Apply(dbc, session)
			if err != nil {
				return err
			}
			out = row
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
