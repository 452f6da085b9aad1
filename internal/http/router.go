package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/daghub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/daghub-backend/internal/http/middleware"
	"github.com/yungbote/daghub-backend/internal/observability"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler    *httpH.HealthHandler
	QueryHandler     *httpH.QueryHandler
	LookupHandler    *httpH.LookupHandler
	DataEntryHandler *httpH.DataEntryHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET(httpMW.MetricsPath, gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Query (public)
		if cfg.QueryHandler != nil {
			api.POST("/query", cfg.QueryHandler.Query)
		}

		// Lookups (public)
		if cfg.LookupHandler != nil {
			api.GET("/find/solution/:id", cfg.LookupHandler.GetSolution)
			api.GET("/find/:facet", cfg.LookupHandler.FindFacetValues)

			api.GET("/dataentry/:dimension", cfg.LookupHandler.ListDimension)
			api.GET("/dataentry/countries/:id", cfg.LookupHandler.GetCountry)
			api.GET("/dataentry/useCases/:id", cfg.LookupHandler.GetUseCase)
			api.GET("/dataentry/organisations/:id", cfg.LookupHandler.GetOrganisation)
			api.GET("/dataentry/solutions/:id", cfg.LookupHandler.GetSolution)
		}
	}

	protected := api.Group("/dataentry")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Writes
		if cfg.DataEntryHandler != nil {
			protected.POST("/organisations", cfg.DataEntryHandler.CreateOrganisation)
			protected.POST("/organisations/bulk", cfg.DataEntryHandler.BulkOrganisations)
			protected.PUT("/organisations/:id", cfg.DataEntryHandler.UpdateOrganisation)
			protected.DELETE("/organisations/:id", cfg.DataEntryHandler.DeleteOrganisation)

			protected.POST("/solutions", cfg.DataEntryHandler.CreateSolution)
			protected.POST("/solutions/bulk", cfg.DataEntryHandler.BulkSolutions)
			protected.PUT("/solutions/:id", cfg.DataEntryHandler.UpdateSolution)
			protected.DELETE("/solutions/:id", cfg.DataEntryHandler.DeleteSolution)
		}
	}

	return r
}
