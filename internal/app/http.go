package app

import (
	"database/sql"

	"github.com/yungbote/daghub-backend/internal/http"
	httpH "github.com/yungbote/daghub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/daghub-backend/internal/http/middleware"
	"github.com/yungbote/daghub-backend/internal/observability"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Query     *httpH.QueryHandler
	Lookup    *httpH.LookupHandler
	DataEntry *httpH.DataEntryHandler
}

func wireHandlers(log *logger.Logger, services Services, sqlDB *sql.DB) Handlers {
	log.Info("Wiring handlers...")
	var db httpH.Pinger
	if sqlDB != nil {
		db = sqlDB
	}
	return Handlers{
		Health:    httpH.NewHealthHandler(db),
		Query:     httpH.NewQueryHandler(log, services.Query),
		Lookup:    httpH.NewLookupHandler(log, services.Lookup),
		DataEntry: httpH.NewDataEntryHandler(log, services.DataEntry),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Tokens),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	log.Info("Wiring router...")
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      serviceName,
		AllowedOrigins:   cfg.AllowedOrigins,
		AuthMiddleware:   middleware.Auth,
		HealthHandler:    handlers.Health,
		QueryHandler:     handlers.Query,
		LookupHandler:    handlers.Lookup,
		DataEntryHandler: handlers.DataEntry,
	})
}
