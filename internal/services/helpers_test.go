package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/quranstudy-backend/internal/data/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/data/repos"
	"github.com/yungbote/quranstudy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/quranstudy-backend/internal/domain"
	"github.com/yungbote/quranstudy-backend/internal/observability"
	"github.com/yungbote/quranstudy-backend/internal/platform/ctxutil"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
	"github.com/yungbote/quranstudy-backend/internal/platform/objectstore"
	"github.com/yungbote/quranstudy-backend/internal/services/analysis"
)

type env struct {
	db         *gorm.DB
	log        *logger.Logger
	store      *objectstore.LocalStore
	metrics    *observability.Metrics
	users      repos.UserRepo
	surahs     repos.SurahRepo
	sessions   repos.SessionRepo
	progress   repos.UserProgressRepo
	catalog    CatalogService
	audio      AudioService
	recitation RecitationService
}

func newEnv(t *testing.T, intn func(int) int) *env {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	store, err := objectstore.NewLocalStore(log, t.TempDir(), "")
	require.NoError(t, err)

	e := &env{
		db:       db,
		log:      log,
		store:    store,
		metrics:  observability.NewMetrics(),
		users:    repos.NewUserRepo(db, log),
		surahs:   repos.NewSurahRepo(db, log),
		sessions: repos.NewSessionRepo(db, log),
		progress: repos.NewUserProgressRepo(db, log),
	}
	e.catalog = NewCatalogService(log, e.surahs, repos.NewVerseRepo(db, log), repos.NewQariRepo(db, log), nil, 0, e.metrics)
	e.audio = NewAudioService(log, store, e.metrics)

	base := aggregates.BaseDeps{DB: db, Log: log}
	progressAgg := aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
		Base:     base,
		Sessions: e.sessions,
		Progress: e.progress,
	})
	e.recitation = NewRecitationService(RecitationServiceDeps{
		Log:      log,
		Surahs:   e.surahs,
		Sessions: e.sessions,
		Progress: e.progress,
		Catalog:  e.catalog,
		Audio:    e.audio,
		Analyzer: analysis.NewStubAnalyzer(intn),
		Aggregate: aggregates.NewRecitationAggregate(aggregates.RecitationAggregateDeps{
			Base:     base,
			Surahs:   e.surahs,
			Sessions: e.sessions,
			Progress: progressAgg,
		}),
		Metrics: e.metrics,
	})
	return e
}

func asUser(ctx context.Context, u *types.User) context.Context {
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: u.ID, IsAdmin: u.IsAdmin})
}

func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@example.com"
}

// fixedScores makes the stub analyzer return the given scores in order.
func fixedScores(scores ...int) func(int) int {
	var mu sync.Mutex
	i := 0
	return func(n int) int {
		mu.Lock()
		defer mu.Unlock()
		s := scores[i%len(scores)]
		i++
		return s - analysis.MinStubScore
	}
}

// wavBytes builds a minimal RIFF/WAVE payload of roughly size bytes.
func wavBytes(size int) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(size-8))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))     // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))     // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16000)) // sample rate
	_ = binary.Write(&buf, binary.LittleEndian, uint32(32000))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(size-44))
	if size > buf.Len() {
		buf.Write(make([]byte, size-buf.Len()))
	}
	return buf.Bytes()
}

func wavUpload(size int) *AudioUpload {
	b := wavBytes(size)
	return &AudioUpload{Filename: "take.wav", Size: int64(len(b)), Body: bytes.NewReader(b)}
}
