package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/quranstudy-backend/internal/data/repos"
	types "github.com/yungbote/quranstudy-backend/internal/domain"
	"github.com/yungbote/quranstudy-backend/internal/observability"
	"github.com/yungbote/quranstudy-backend/internal/platform/apierr"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
	"github.com/yungbote/quranstudy-backend/internal/platform/i18n"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

const FeaturedQariLimit = 5

// JSONCache is the subset of the redis cache the catalog needs.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// WelcomePage holds the props of the landing and surah pages. Verses and
// CurrentSurah stay null when no surah is selected.
type WelcomePage struct {
	Surahs       []*types.Surah `json:"surahs"`
	Qaris        []*types.Qari  `json:"qaris"`
	Verses       []*types.Verse `json:"verses"`
	CurrentSurah *types.Surah   `json:"currentSurah"`
	Language     i18n.Language  `json:"language"`
	Auth         PageAuth       `json:"auth"`
}

// PageAuth is shared with every page; User is null for anonymous visitors.
type PageAuth struct {
	User *types.User `json:"user"`
}

type CatalogService interface {
	Surahs(ctx context.Context) ([]*types.Surah, error)
	Qaris(ctx context.Context) ([]*types.Qari, error)
	FeaturedQaris(ctx context.Context) ([]*types.Qari, error)
	// WelcomePage resolves surahID when non-nil; an unknown id yields no selection.
	WelcomePage(ctx context.Context, lang i18n.Language, surahID *uint) (*WelcomePage, error)
	// SurahPage is WelcomePage for a required surah; unknown ids are not found.
	SurahPage(ctx context.Context, lang i18n.Language, surahID uint) (*WelcomePage, error)
}

type catalogService struct {
	log     *logger.Logger
	surahs  repos.SurahRepo
	verses  repos.VerseRepo
	qaris   repos.QariRepo
	cache   JSONCache
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewCatalogService wires the read side of the reference data. cache may be nil.
func NewCatalogService(
	log *logger.Logger,
	surahs repos.SurahRepo,
	verses repos.VerseRepo,
	qaris repos.QariRepo,
	cache JSONCache,
	ttl time.Duration,
	metrics *observability.Metrics,
) CatalogService {
	return &catalogService{
		log:     log.With("service", "CatalogService"),
		surahs:  surahs,
		verses:  verses,
		qaris:   qaris,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

func (s *catalogService) Surahs(ctx context.Context) ([]*types.Surah, error) {
	return cached(ctx, s, "surahs:all", func() ([]*types.Surah, error) {
		return s.surahs.ListAll(dbctx.From(ctx))
	})
}

func (s *catalogService) Qaris(ctx context.Context) ([]*types.Qari, error) {
	return cached(ctx, s, "qaris:all", func() ([]*types.Qari, error) {
		return s.qaris.ListAll(dbctx.From(ctx))
	})
}

func (s *catalogService) FeaturedQaris(ctx context.Context) ([]*types.Qari, error) {
	key := fmt.Sprintf("qaris:featured:%d", FeaturedQariLimit)
	return cached(ctx, s, key, func() ([]*types.Qari, error) {
		return s.qaris.ListFeatured(dbctx.From(ctx), FeaturedQariLimit)
	})
}

func (s *catalogService) versesOf(ctx context.Context, surahID uint) ([]*types.Verse, error) {
	return cached(ctx, s, fmt.Sprintf("verses:%d", surahID), func() ([]*types.Verse, error) {
		return s.verses.ListBySurah(dbctx.From(ctx), surahID)
	})
}

func (s *catalogService) WelcomePage(ctx context.Context, lang i18n.Language, surahID *uint) (*WelcomePage, error) {
	page := &WelcomePage{Language: lang}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.Surahs(gctx)
		page.Surahs = out
		return err
	})
	g.Go(func() error {
		out, err := s.FeaturedQaris(gctx)
		page.Qaris = out
		return err
	})
	if surahID != nil {
		g.Go(func() error {
			current, err := s.surahs.GetByID(dbctx.From(gctx), *surahID)
			if err != nil || current == nil {
				return err
			}
			verses, err := s.versesOf(gctx, current.ID)
			if err != nil {
				return err
			}
			page.CurrentSurah = current
			page.Verses = verses
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load welcome page: %w", err)
	}
	return page, nil
}

func (s *catalogService) SurahPage(ctx context.Context, lang i18n.Language, surahID uint) (*WelcomePage, error) {
	page, err := s.WelcomePage(ctx, lang, &surahID)
	if err != nil {
		return nil, err
	}
	if page.CurrentSurah == nil {
		return nil, apierr.NotFound("surah")
	}
	return page, nil
}

// cached reads key through the optional cache. Cache failures only cost a
// database round trip.
func cached[T any](ctx context.Context, s *catalogService, key string, load func() ([]T, error)) ([]T, error) {
	if s.cache != nil {
		var out []T
		hit, err := s.cache.GetJSON(ctx, key, &out)
		if err != nil {
			s.log.Warn("Catalog cache read failed", "key", key, "error", err)
		} else if hit {
			s.metrics.CatalogCacheHit()
			return out, nil
		}
		s.metrics.CatalogCacheMiss()
	}
	out, err := load()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, out, s.ttl); err != nil {
			s.log.Warn("Catalog cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}
