package app

import (
	httpapi "github.com/yungbote/quranstudy-backend/internal/http"
	httpH "github.com/yungbote/quranstudy-backend/internal/http/handlers"
	httpMW "github.com/yungbote/quranstudy-backend/internal/http/middleware"
	"github.com/yungbote/quranstudy-backend/internal/observability"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Quran      *httpH.QuranHandler
	Qari       *httpH.QariHandler
	Recitation *httpH.RecitationHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Auth:       httpH.NewAuthHandler(services.Auth),
		User:       httpH.NewUserHandler(services.User),
		Quran:      httpH.NewQuranHandler(services.Catalog, services.User),
		Qari:       httpH.NewQariHandler(services.Catalog),
		Recitation: httpH.NewRecitationHandler(log, services.Recitation),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, services Services, metrics *observability.Metrics) *httpapi.Server {
	return httpapi.NewServer(log, cfg.HTTP.Addr, httpapi.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       cfg.App.Name,
		TracingEnabled:    cfg.Otel.Enabled,
		AllowedOrigins:    cfg.HTTP.AllowedOrigins,
		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, services.Auth),
		UserHandler:       handlers.User,
		QuranHandler:      handlers.Quran,
		QariHandler:       handlers.Qari,
		RecitationHandler: handlers.Recitation,
	})
}
