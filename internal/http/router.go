package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/quranstudy-backend/internal/http/handlers"
	httpMW "github.com/yungbote/quranstudy-backend/internal/http/middleware"
	"github.com/yungbote/quranstudy-backend/internal/observability"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	AllowedOrigins []string

	AuthHandler       *httpH.AuthHandler
	AuthMiddleware    *httpMW.AuthMiddleware
	UserHandler       *httpH.UserHandler
	QuranHandler      *httpH.QuranHandler
	QariHandler       *httpH.QariHandler
	RecitationHandler *httpH.RecitationHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins...))
	r.Use(httpMW.Language())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health-check", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Pages (public, caller attached when a token is sent)
	if cfg.QuranHandler != nil {
		pages := r.Group("/")
		if cfg.AuthMiddleware != nil {
			pages.Use(cfg.AuthMiddleware.OptionalAuth())
		}
		pages.GET("/", cfg.QuranHandler.Welcome)
		pages.GET("/surah/:id", cfg.QuranHandler.Show)
	}

	api := r.Group("/api")
	{
		if cfg.QariHandler != nil {
			api.GET("/qaris", cfg.QariHandler.List)
		}
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	if cfg.AuthMiddleware == nil {
		return r
	}
	requireAuth := cfg.AuthMiddleware.RequireAuth()

	protectedAPI := api.Group("/", requireAuth)
	{
		if cfg.AuthHandler != nil {
			protectedAPI.POST("/refresh", cfg.AuthHandler.Refresh)
			protectedAPI.POST("/logout", cfg.AuthHandler.Logout)
		}
		if cfg.UserHandler != nil {
			protectedAPI.GET("/me", cfg.UserHandler.GetMe)
		}
		if cfg.RecitationHandler != nil {
			protectedAPI.POST("/recitation", cfg.RecitationHandler.Store)
		}
	}

	// Pages (authenticated)
	if cfg.RecitationHandler != nil {
		pages := r.Group("/recitation", requireAuth)
		pages.GET("", cfg.RecitationHandler.Index)
		pages.GET("/history", cfg.RecitationHandler.History)
		pages.GET("/:userId", cfg.RecitationHandler.UserHistory)
	}

	return r
}
