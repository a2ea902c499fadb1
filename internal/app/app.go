package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/quranstudy-backend/internal/data/db"
	httpapi "github.com/yungbote/quranstudy-backend/internal/http"
	"github.com/yungbote/quranstudy-backend/internal/observability"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Metrics  *observability.Metrics
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *httpapi.Server

	otelShutdown func(context.Context) error
}

// OpenDB builds the logger and database handle only. The migrate and seed commands
// stop here.
func OpenDB(cfg Config) (*logger.Logger, *gorm.DB, error) {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	gdb, err := db.Open(db.Config{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		SlowQuery:    cfg.Database.SlowQuery,
	}, log)
	if err != nil {
		log.Sync()
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return log, gdb, nil
}

func New(ctx context.Context, cfg Config) (*App, error) {
	log, gdb, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:      cfg.Otel.Enabled,
		ServiceName:  cfg.App.Name,
		Environment:  cfg.App.Environment,
		Version:      cfg.App.Version,
		SamplerRatio: cfg.Otel.SamplerRatio,
		Endpoint:     cfg.Otel.Endpoint,
		Headers:      cfg.Otel.Headers,
		Insecure:     cfg.Otel.Insecure,
	})

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		closeDB(gdb)
		log.Sync()
		return nil, err
	}
	reposet := wireRepos(gdb, log)
	svcs := wireServices(gdb, log, cfg, reposet, clients, metrics)
	handlers := wireHandlers(log, svcs)
	server := wireServer(log, cfg, handlers, svcs, metrics)

	return &App{
		Log:          log,
		DB:           gdb,
		Cfg:          cfg,
		Metrics:      metrics,
		Clients:      clients,
		Repos:        reposet,
		Services:     svcs,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.Server.Run(ctx, a.Cfg.HTTP.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	a.Clients.Close()
	closeDB(a.DB)
	a.Log.Sync()
}

func closeDB(gdb *gorm.DB) {
	if gdb == nil {
		return
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
