package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/courseforge-backend/internal/data/db"
	"github.com/yungbote/courseforge-backend/internal/data/repos"
	"github.com/yungbote/courseforge-backend/internal/http"
	"github.com/yungbote/courseforge-backend/internal/observability"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    repos.Set
	Services Services
	Metrics  *observability.Metrics

	dbService    *db.Service
	clients      Clients
	server       *http.Server
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.LogMode,
		logger.WithRedaction(cfg.LogRedactionEnabled),
		logger.WithHashSalt(cfg.LogHashSalt),
	)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Configuration loaded", "db_driver", cfg.DB.Driver, "port", cfg.Port)

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.New()
	}

	dbService, err := db.New(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(log, cfg, metrics)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, metrics, reposet, clients)
	if err != nil {
		clients.Close()
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	sqlDB, err := theDB.DB()
	if err != nil {
		clients.Close()
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("database handle: %w", err)
	}
	handlerset := wireHandlers(log, serviceset, sqlDB)
	middleware := wireMiddleware(log, cfg)
	router := wireRouter(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		dbService:    dbService,
		clients:      clients,
		server:       http.NewServer(router),
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background work: the stale generation sweeper.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Services.Sweeper != nil {
		// One pass at boot recovers activities left GENERATING by a crash.
		if n, err := a.Services.Sweeper.Sweep(ctx); err != nil {
			a.Log.Warn("Initial stale sweep failed", "error", err)
		} else if n > 0 {
			a.Log.Info("Recovered stale generations", "count", n)
		}
		if err := a.Services.Sweeper.Start(ctx); err != nil {
			return fmt.Errorf("start sweeper: %w", err)
		}
	}
	return nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "addr", addr)
	return a.server.Run(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Services.Sweeper != nil {
		a.Services.Sweeper.Stop()
	}
	a.clients.Close()
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("Database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("Tracer shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
