package services

import (
	"context"
	"slices"

	"github.com/yungbote/daghub-backend/internal/data/repos"
	types "github.com/yungbote/daghub-backend/internal/domain"
	domainagg "github.com/yungbote/daghub-backend/internal/domain/aggregates"
	"github.com/yungbote/daghub-backend/internal/domain/dimension"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/domain/facet"
	"github.com/yungbote/daghub-backend/internal/observability"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

// LookupCache is the cache-aside store of dimension and facet listings.
type LookupCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}

type LookupService interface {
	// List returns every row of kind. Countries carry their regions and
	// use-cases their sub-use-cases.
	List(ctx context.Context, kind dimension.Kind) (any, error)
	Country(ctx context.Context, id string) (*types.Country, error)
	UseCase(ctx context.Context, id int) (*types.UseCase, error)
	Organisation(ctx context.Context, id int) (*entry.OrganisationDetail, error)
	Solution(ctx context.Context, id int) (*entry.SolutionDetail, error)
	// FacetValues lists the values of f that active visible solutions use.
	FacetValues(ctx context.Context, f facet.Facet) (any, error)
	// Invalidate drops cached listings after a catalogue write.
	Invalidate(ctx context.Context) error
}

type lookupService struct {
	log     *logger.Logger
	repos   repos.Set
	cache   LookupCache
	metrics *observability.Metrics
}

// NewLookupService serves listings through cache when it is non-nil.
func NewLookupService(log *logger.Logger, set repos.Set, cache LookupCache, metrics *observability.Metrics) LookupService {
	return &lookupService{
		log:     log.With("service", "LookupService"),
		repos:   set,
		cache:   cache,
		metrics: metrics,
	}
}

func (s *lookupService) List(ctx context.Context, kind dimension.Kind) (any, error) {
	dbc := dbctx.Context{Ctx: ctx}
	key := "dimension:" + string(kind)
	switch kind {
	case dimension.KindCountry:
		return cached(ctx, s, key, func() ([]*types.Country, error) { return s.repos.Dimensions.ListCountries(dbc) })
	case dimension.KindUseCase:
		return cached(ctx, s, key, func() ([]*types.UseCase, error) { return s.repos.Dimensions.ListUseCases(dbc) })
	default:
		return cached(ctx, s, key, func() ([]dimension.Item, error) { return s.repos.Dimensions.ListItems(dbc, kind) })
	}
}

func (s *lookupService) Country(ctx context.Context, id string) (*types.Country, error) {
	const op = "Lookup.Country"
	c, err := s.repos.Dimensions.GetCountry(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domainagg.NotFound(op, "country %s not found", id)
	}
	return c, nil
}

func (s *lookupService) UseCase(ctx context.Context, id int) (*types.UseCase, error) {
	const op = "Lookup.UseCase"
	uc, err := s.repos.Dimensions.GetUseCase(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if uc == nil {
		return nil, domainagg.NotFound(op, "use case %d not found", id)
	}
	return uc, nil
}

func (s *lookupService) Organisation(ctx context.Context, id int) (*entry.OrganisationDetail, error) {
	const op = "Lookup.Organisation"
	dbc := dbctx.Context{Ctx: ctx}
	org, err := s.repos.Organisations.GetActive(dbc, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domainagg.NotFound(op, "organisation %d not found", id)
	}
	if org.Owners, err = s.repos.Owners.Load(dbc, entry.KindOrganisation, id); err != nil {
		return nil, err
	}
	out := &entry.OrganisationDetail{Organisation: *org}
	if out.Translations, err = s.repos.Translations.ListOrganisation(dbc, id); err != nil {
		return nil, err
	}
	if out.Solutions, err = s.repos.Organisations.SolutionNames(dbc, id); err != nil {
		return nil, err
	}
	out.Translations = nonNil(out.Translations)
	out.Solutions = nonNil(out.Solutions)
	return out, nil
}

func (s *lookupService) Solution(ctx context.Context, id int) (*entry.SolutionDetail, error) {
	const op = "Lookup.Solution"
	dbc := dbctx.Context{Ctx: ctx}
	sol, err := s.repos.Solutions.GetActive(dbc, id)
	if err != nil {
		return nil, err
	}
	if sol == nil {
		return nil, domainagg.NotFound(op, "solution %d not found", id)
	}
	if sol.Owners, err = s.repos.Owners.Load(dbc, entry.KindSolution, id); err != nil {
		return nil, err
	}
	set, err := s.repos.Associations.Load(dbc, id)
	if err != nil {
		return nil, err
	}
	translations, err := s.repos.Translations.ListSolution(dbc, id)
	if err != nil {
		return nil, err
	}
	// the primary sub-use-case is stored with the others but shown apart
	subUseCases := slices.DeleteFunc(slices.Clone(set.SubUseCases), func(v int) bool {
		return v == sol.PrimarySubUseCaseID
	})
	return &entry.SolutionDetail{
		Solution:       *sol,
		BusinessModels: nonNil(set.BusinessModels),
		Channels:       nonNil(set.Channels),
		Countries:      nonNil(set.Countries),
		Languages:      nonNil(set.Languages),
		Regions:        nonNil(set.Regions),
		Sectors:        nonNil(set.Sectors),
		SubUseCases:    nonNil(subUseCases),
		Tags:           nonNil(set.Tags),
		Technologies:   nonNil(set.Technologies),
		Translations:   nonNil(translations),
	}, nil
}

func (s *lookupService) FacetValues(ctx context.Context, f facet.Facet) (any, error) {
	dbc := dbctx.Context{Ctx: ctx}
	key := "facet:" + string(f)
	if f == facet.FacetCountryRegion {
		return cached(ctx, s, key, func() ([]facet.CountryRegion, error) { return s.repos.Facets.CountryRegions(dbc) })
	}
	return cached(ctx, s, key, func() ([]dimension.KeyValue, error) { return s.repos.Facets.Values(dbc, f) })
}

func (s *lookupService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("lookup cache invalidation failed", "error", err)
		return err
	}
	return nil
}

// cached reads key from the cache, falling back to load and populating the
// cache. Cache failures degrade to a direct load.
func cached[T any](ctx context.Context, s *lookupService, key string, load func() ([]T, error)) ([]T, error) {
	if s.cache != nil {
		var hit []T
		ok, err := s.cache.Get(ctx, key, &hit)
		switch {
		case err != nil:
			s.metrics.IncLookupCache("error")
			s.log.Warn("lookup cache read failed", "key", key, "error", err)
		case ok:
			s.metrics.IncLookupCache("hit")
			return nonNil(hit), nil
		default:
			s.metrics.IncLookupCache("miss")
		}
	}
	rows, err := load()
	if err != nil {
		return nil, err
	}
	rows = nonNil(rows)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rows); err != nil {
			s.log.Warn("lookup cache write failed", "key", key, "error", err)
		}
	}
	return rows, nil
}
