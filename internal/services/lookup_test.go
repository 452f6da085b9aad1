package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/daghub-backend/internal/data/repos"
	repotest "github.com/yungbote/daghub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/daghub-backend/internal/domain"
	domainagg "github.com/yungbote/daghub-backend/internal/domain/aggregates"
	"github.com/yungbote/daghub-backend/internal/domain/association"
	"github.com/yungbote/daghub-backend/internal/domain/dimension"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/domain/facet"
)

type mapCache struct {
	data        map[string][]byte
	gets, hits  int
	invalidated int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.gets++
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.invalidated++
	c.data = map[string][]byte{}
	return nil
}

type lookupFixture struct {
	svc   LookupService
	cache *mapCache
	org   *types.Organisation
	sol   *types.Solution
}

func newLookupFixture(t *testing.T) lookupFixture {
	t.Helper()
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	ctx := context.Background()
	log := repotest.Logger(t)

	org := repotest.SeedOrganisation(t, ctx, tx, "Acme", "10001", "10002")
	sol := repotest.SeedSolution(t, ctx, tx, org, association.Set{
		Channels:     []int{2},
		Countries:    []string{"KEN"},
		Technologies: []int{1},
		SubUseCases:  []int{repotest.SubUseCaseAdvice, repotest.SubUseCaseCredit},
	}, func(s *types.Solution) { s.Name = "alpha" })
	repotest.SeedSolution(t, ctx, tx, org, association.Set{Countries: []string{"KEN"}}, func(s *types.Solution) {
		s.Name = "hidden"
		s.Visible = false
	})

	cache := newMapCache()
	return lookupFixture{
		svc:   NewLookupService(log, repos.NewSet(tx, log), cache, nil),
		cache: cache,
		org:   org,
		sol:   sol,
	}
}

func TestLookupListUsesCache(t *testing.T) {
	f := newLookupFixture(t)
	ctx := context.Background()

	first, err := f.svc.List(ctx, dimension.KindCountry)
	require.NoError(t, err)
	countries, ok := first.([]*types.Country)
	require.True(t, ok, "countries list type %T", first)

	var kenya *types.Country
	for _, c := range countries {
		if c.ID == "KEN" {
			kenya = c
		}
	}
	require.NotNil(t, kenya)
	require.NotEmpty(t, kenya.Regions)

	_, err = f.svc.List(ctx, dimension.KindCountry)
	require.NoError(t, err)
	require.Equal(t, 2, f.cache.gets)
	require.Equal(t, 1, f.cache.hits)

	require.NoError(t, f.svc.Invalidate(ctx))
	require.Equal(t, 1, f.cache.invalidated)
	require.Empty(t, f.cache.data)

	items, err := f.svc.List(ctx, dimension.KindTechnology)
	require.NoError(t, err)
	require.IsType(t, []dimension.Item{}, items)
	require.Len(t, items.([]dimension.Item), 6)
}

func TestLookupOrganisationDetail(t *testing.T) {
	f := newLookupFixture(t)

	got, err := f.svc.Organisation(context.Background(), f.org.ID)
	require.NoError(t, err)
	require.Equal(t, entry.Owners{"10001", "10002"}, got.Owners)
	require.NotNil(t, got.Translations)
	// invisible solutions still belong to the organisation
	require.Len(t, got.Solutions, 2)
	require.Equal(t, "alpha", got.Solutions[0].Name)

	_, err = f.svc.Organisation(context.Background(), f.org.ID+1000)
	require.True(t, domainagg.IsCode(err, domainagg.CodeNotFound), "missing organisation: got %v", err)
}

func TestLookupSolutionDetailSeparatesPrimary(t *testing.T) {
	f := newLookupFixture(t)

	got, err := f.svc.Solution(context.Background(), f.sol.ID)
	require.NoError(t, err)
	require.Equal(t, repotest.SubUseCaseAdvice, got.PrimarySubUseCaseID)
	require.Equal(t, []int{repotest.SubUseCaseCredit}, got.SubUseCases)
	require.Equal(t, []int{2}, got.Channels)
	require.Equal(t, []string{"KEN"}, got.Countries)
	require.Equal(t, []int{}, got.Languages)
	require.Equal(t, entry.Owners{"10001", "10002"}, got.Owners)
}

func TestLookupFacetValues(t *testing.T) {
	f := newLookupFixture(t)
	ctx := context.Background()

	regions, err := f.svc.FacetValues(ctx, facet.FacetCountryRegion)
	require.NoError(t, err)
	require.NotEmpty(t, regions.([]facet.CountryRegion))

	techs, err := f.svc.FacetValues(ctx, facet.FacetTechnology)
	require.NoError(t, err)
	values := techs.([]dimension.KeyValue)
	require.Len(t, values, 1)
}
