package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/daghub-backend/internal/data/aggregates"
	"github.com/yungbote/daghub-backend/internal/data/repos"
	domainagg "github.com/yungbote/daghub-backend/internal/domain/aggregates"
	"github.com/yungbote/daghub-backend/internal/observability"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
	"github.com/yungbote/daghub-backend/internal/services"
)

type Services struct {
	Organisations domainagg.OrganisationAggregate
	Solutions     domainagg.SolutionAggregate

	Query     services.QueryService
	QueryLog  *services.QueryLogWorker
	Lookup    services.LookupService
	DataEntry services.DataEntryService
	Tokens    services.TokenService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, set repos.Set, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	base := aggregates.BaseDeps{
		DB:       db,
		Log:      log,
		Runner:   aggregates.NewGormTxRunner(db),
		Hooks:    aggregates.NewObservabilityHooks(metrics),
		CASGuard: aggregates.NewCASGuard(db),
	}
	sync := aggregates.NewSynchronizer(
		set.Associations,
		set.Translations,
		aggregates.NewFreeTextResolver(set.FreeText),
		set.FreeText,
		log,
	)
	organisations := aggregates.NewOrganisationAggregate(aggregates.OrganisationAggregateDeps{
		Base:          base,
		Organisations: set.Organisations,
		Solutions:     set.Solutions,
		Owners:        set.Owners,
		Dimensions:    set.Dimensions,
		Translations:  set.Translations,
		Sweeper:       set.FreeText,
	})
	solutions := aggregates.NewSolutionAggregate(aggregates.SolutionAggregateDeps{
		Base:          base,
		Organisations: set.Organisations,
		Solutions:     set.Solutions,
		Owners:        set.Owners,
		Dimensions:    set.Dimensions,
		Synchronizer:  sync,
	})

	var cache services.LookupCache
	if clients.LookupCache != nil {
		cache = clients.LookupCache
	}
	var publisher services.ChangePublisher
	if clients.ChangeBus != nil {
		publisher = clients.ChangeBus
	}

	queryLog := services.NewQueryLogWorker(log, set.QueryLogs, metrics, cfg.QueryLogBuffer)
	lookup := services.NewLookupService(log, set, cache, metrics)

	return Services{
		Organisations: organisations,
		Solutions:     solutions,
		Query:         services.NewQueryService(log, set.Facets, set.Translations, queryLog, metrics, cfg.AggregateConcurrency),
		QueryLog:      queryLog,
		Lookup:        lookup,
		DataEntry:     services.NewDataEntryService(log, organisations, solutions, set.Organisations, set.Solutions, lookup, publisher),
		Tokens:        services.NewTokenService(log, cfg.JWTSecretKey, cfg.JWTIssuer),
	}
}
