package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/daghub-backend/internal/data/db"
	"github.com/yungbote/daghub-backend/internal/data/repos"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/http"
	"github.com/yungbote/daghub-backend/internal/observability"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    repos.Set
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics

	store        *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	log, err := logger.New(LogMode())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenStore connects to the configured database and brings the schema up to
// date.
func OpenStore(log *logger.Logger, cfg Config) (*db.Service, error) {
	store, err := db.NewService(log, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("db automigrate: %w", err)
	}
	return store, nil
}

func New(log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	store, err := OpenStore(log, cfg)
	if err != nil {
		return nil, err
	}
	theDB := store.DB()

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	metrics := observability.Init(log)
	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients, metrics)

	sqlDB, err := theDB.DB()
	if err != nil {
		log.Warn("sql handle unavailable, healthcheck skips the db ping", "error", err)
	}
	handlerset := wireHandlers(log, serviceset, sqlDB)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Metrics:      metrics,
		store:        store,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background workers: the query log writer, the metric
// collectors and the change bus forwarder.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.Services.QueryLog.Start(ctx)
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)

	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
	}
	if a.Clients.ChangeBus != nil {
		lookups := a.Services.Lookup
		err := a.Clients.ChangeBus.StartForwarder(ctx, func(ev entry.ChangeEvent) {
			if err := lookups.Invalidate(ctx); err != nil {
				a.Log.Warn("lookup invalidation failed", "kind", ev.Kind, "id", ev.ID, "error", err)
			}
		})
		if err != nil {
			a.Log.Warn("change bus forwarder not started", "error", err)
		}
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Cfg.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY is required to serve")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Serving", "addr", addr)
	return a.Server.Run(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return nil
	}
	return a.Server.Shutdown(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Services.QueryLog.Close()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	a.Clients.Close()
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
