package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/quranstudy-backend/internal/data/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/observability"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
	"github.com/yungbote/quranstudy-backend/internal/services"
	"github.com/yungbote/quranstudy-backend/internal/services/analysis"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Catalog    services.CatalogService
	Audio      services.AudioService
	Recitation services.RecitationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	base := aggregates.BaseDeps{
		DB:     db,
		Log:    log,
		Hooks:  aggregates.NewObservabilityHooks(metrics),
		Locker: clients.Locker,
	}
	progress := aggregates.NewProgressAggregate(aggregates.ProgressAggregateDeps{
		Base:     base,
		Sessions: repos.Session,
		Progress: repos.Progress,
	})
	recitationAgg := aggregates.NewRecitationAggregate(aggregates.RecitationAggregateDeps{
		Base:     base,
		Surahs:   repos.Surah,
		Sessions: repos.Session,
		Progress: progress,
	})

	var cache services.JSONCache
	if clients.Cache != nil {
		cache = clients.Cache
	}
	catalog := services.NewCatalogService(log, repos.Surah, repos.Verse, repos.Qari, cache, cfg.Catalog.CacheTTL, metrics)
	audio := services.NewAudioService(log, clients.AudioStore, metrics)

	return Services{
		Auth: services.NewAuthService(db, log, repos.User, repos.UserToken,
			cfg.JWT.SecretKey, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL),
		User:    services.NewUserService(log, repos.User),
		Catalog: catalog,
		Audio:   audio,
		Recitation: services.NewRecitationService(services.RecitationServiceDeps{
			Log:       log,
			Surahs:    repos.Surah,
			Sessions:  repos.Session,
			Progress:  repos.Progress,
			Catalog:   catalog,
			Audio:     audio,
			Analyzer:  analysis.NewStubAnalyzer(nil),
			Aggregate: recitationAgg,
			Metrics:   metrics,
		}),
	}
}
