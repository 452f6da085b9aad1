package facet

import (
	"context"
	"slices"
	"testing"

	repotest "github.com/yungbote/daghub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/domain/association"
	"github.com/yungbote/daghub-backend/internal/domain/dimension"
	"github.com/yungbote/daghub-backend/internal/domain/facet"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
)

type fixture struct {
	repo                    FacetRepo
	dbc                     dbctx.Context
	kenyaAI, nigeriaDrones  *types.Solution
	dutchOnly, hidden, both *types.Solution
}

func seedCatalogue(t *testing.T) fixture {
	t.Helper()
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	ctx := context.Background()

	ngo := repotest.SeedOrganisation(t, ctx, tx, "ngo", "10001")
	if err := tx.Model(ngo).Updates(map[string]any{"organisation_type_id": repotest.OrgTypeNGO, "business_growth_stage_id": repotest.StageIdeation}).Error; err != nil {
		t.Fatalf("ngo: %v", err)
	}
	firm := repotest.SeedOrganisation(t, ctx, tx, "firm", "10002")

	f := fixture{
		repo: NewFacetRepo(tx, repotest.Logger(t)),
		dbc:  dbctx.Context{Ctx: ctx, Tx: tx},
	}
	f.kenyaAI = repotest.SeedSolution(t, ctx, tx, firm, association.Set{
		Countries:    []string{"KEN"},
		Technologies: []int{1},
		Channels:     []int{1},
		SubUseCases:  []int{repotest.SubUseCaseAdvice},
	}, func(s *types.Solution) { s.Launch = 2019; s.WomenUsers = repotest.IntPtr(10); s.RegisteredUsers = repotest.IntPtr(100) })
	f.nigeriaDrones = repotest.SeedSolution(t, ctx, tx, ngo, association.Set{
		Countries:    []string{"NGA", "KEN"},
		Technologies: []int{3},
		Tags:         []int{2},
		SubUseCases:  []int{repotest.SubUseCaseAdvice, repotest.SubUseCasePrice},
	}, func(s *types.Solution) { s.Launch = 2021; s.WomenUsers = repotest.IntPtr(30); s.RegisteredUsers = repotest.IntPtr(50) })
	f.dutchOnly = repotest.SeedSolution(t, ctx, tx, firm, association.Set{
		Countries:    []string{"NLD"},
		Technologies: []int{1},
	}, nil)
	f.hidden = repotest.SeedSolution(t, ctx, tx, firm, association.Set{
		Countries:    []string{"KEN"},
		Technologies: []int{2},
	}, func(s *types.Solution) { s.Visible = false })
	f.both = repotest.SeedSolution(t, ctx, tx, firm, association.Set{
		Countries:    []string{"GHA"},
		Technologies: []int{1, 3},
		SubUseCases:  []int{repotest.SubUseCaseCredit},
	}, func(s *types.Solution) { s.Launch = 2019 })
	return f
}

func TestMatchingSolutionIDs(t *testing.T) {
	f := seedCatalogue(t)

	cases := []struct {
		name string
		sel  facet.Selection
		want []int
	}{
		{"empty selection returns every visible lmic solution", facet.Selection{}, []int{f.kenyaAI.ID, f.nigeriaDrones.ID, f.both.ID}},
		{"or within facet", facet.Selection{Technologies: []int{1, 3}}, []int{f.kenyaAI.ID, f.nigeriaDrones.ID, f.both.ID}},
		{"and across facets", facet.Selection{Technologies: []int{1}, Channels: []int{1}}, []int{f.kenyaAI.ID}},
		{"country must be lmic and selected", facet.Selection{Countries: []string{"NLD"}}, nil},
		{"country facet", facet.Selection{Countries: []string{"NGA"}}, []int{f.nigeriaDrones.ID}},
		{"use case through sub use case", facet.Selection{UseCases: []int{2}}, []int{f.nigeriaDrones.ID}},
		{"organisation type", facet.Selection{OrganisationTypes: []int{repotest.OrgTypeNGO}}, []int{f.nigeriaDrones.ID}},
		{"stage", facet.Selection{Stages: []int{repotest.StageScaling}}, []int{f.kenyaAI.ID, f.both.ID}},
		{"unknown id matches nothing", facet.Selection{Tags: []int{999}}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.repo.MatchingSolutionIDs(f.dbc, tc.sel)
			if err != nil {
				t.Fatalf("MatchingSolutionIDs: %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Fatalf("ids: want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestAggregateCounts(t *testing.T) {
	f := seedCatalogue(t)
	ids := []int{f.kenyaAI.ID, f.nigeriaDrones.ID, f.both.ID}

	byCountry, err := f.repo.CountByCountry(f.dbc, ids, nil)
	if err != nil {
		t.Fatalf("CountByCountry: %v", err)
	}
	want := []dimension.KeyValue{{Key: "GHA", Value: 1}, {Key: "KEN", Value: 2}, {Key: "NGA", Value: 1}}
	if !slices.Equal(byCountry, want) {
		t.Fatalf("by country: want=%v got=%v", want, byCountry)
	}
	filtered, err := f.repo.CountByCountry(f.dbc, ids, []string{"KEN"})
	if err != nil || len(filtered) != 1 || filtered[0].Value != 2 {
		t.Fatalf("by selected country: got=%v err=%v", filtered, err)
	}

	byLaunch, err := f.repo.CountByLaunch(f.dbc, ids)
	if err != nil {
		t.Fatalf("CountByLaunch: %v", err)
	}
	if !slices.Equal(byLaunch, []dimension.KeyValue{{Key: 2019, Value: 2}, {Key: 2021, Value: 1}}) {
		t.Fatalf("by launch: got=%v", byLaunch)
	}

	byTech, err := f.repo.CountByTechnology(f.dbc, ids)
	if err != nil {
		t.Fatalf("CountByTechnology: %v", err)
	}
	if !slices.Equal(byTech, []dimension.KeyValue{{Key: "Artificial intelligence", Value: 2}, {Key: "Drones", Value: 2}}) {
		t.Fatalf("by technology: got=%v", byTech)
	}

	byType, err := f.repo.CountByOrganisationType(f.dbc, ids)
	if err != nil || !slices.Equal(byType, []dimension.KeyValue{{Key: "NGO", Value: 1}, {Key: "Private enterprise", Value: 2}}) {
		t.Fatalf("by organisation type: got=%v err=%v", byType, err)
	}

	byUseCase, err := f.repo.CountByUseCase(f.dbc, ids)
	if err != nil {
		t.Fatalf("CountByUseCase: %v", err)
	}
	wantUC := []dimension.KeyValue{{Key: "Advisory", Value: 2}, {Key: "Financial access", Value: 1}, {Key: "Market linkage", Value: 1}}
	if !slices.Equal(byUseCase, wantUC) {
		t.Fatalf("by use case: want=%v got=%v", wantUC, byUseCase)
	}

	byNumber, err := f.repo.CountByUseCaseNumber(f.dbc, ids)
	if err != nil {
		t.Fatalf("CountByUseCaseNumber: %v", err)
	}
	if !slices.Equal(byNumber, []dimension.KeyValue{{Key: 1, Value: 2}, {Key: 2, Value: 1}}) {
		t.Fatalf("by use case number: got=%v", byNumber)
	}

	rows, err := f.repo.SolutionRows(f.dbc, ids)
	if err != nil || len(rows) != 3 {
		t.Fatalf("SolutionRows: got=%d err=%v", len(rows), err)
	}
	if rows[1].OrganisationName == nil || *rows[1].OrganisationName != "ngo" {
		t.Fatalf("organisation name: got=%v", rows[1].OrganisationName)
	}

	metrics, err := f.repo.MetricRows(f.dbc, ids)
	if err != nil || len(metrics) != 3 || metrics[0].WomenUsers == nil || *metrics[0].WomenUsers != 10 {
		t.Fatalf("MetricRows: got=%+v err=%v", metrics, err)
	}
}

func TestValues(t *testing.T) {
	f := seedCatalogue(t)

	countries, err := f.repo.Values(f.dbc, facet.FacetCountry)
	if err != nil {
		t.Fatalf("Values country: %v", err)
	}
	want := []dimension.KeyValue{{Key: "GHA", Value: "Ghana"}, {Key: "KEN", Value: "Kenya"}, {Key: "NGA", Value: "Nigeria"}}
	if !slices.Equal(countries, want) {
		t.Fatalf("countries: want=%v got=%v", want, countries)
	}

	techs, err := f.repo.Values(f.dbc, facet.FacetTechnology)
	if err != nil {
		t.Fatalf("Values technology: %v", err)
	}
	// Blockchain is only used by the hidden solution
	if !slices.Equal(techs, []dimension.KeyValue{{Key: 1, Value: "Artificial intelligence"}, {Key: 3, Value: "Drones"}}) {
		t.Fatalf("technologies: got=%v", techs)
	}

	stages, err := f.repo.Values(f.dbc, facet.FacetStage)
	if err != nil || len(stages) != 2 {
		t.Fatalf("stages: got=%v err=%v", stages, err)
	}

	regions, err := f.repo.CountryRegions(f.dbc)
	if err != nil || len(regions) == 0 || regions[0].CountryID != "BRA" || regions[0].Country != "Brazil" {
		t.Fatalf("CountryRegions: got=%v err=%v", regions, err)
	}
}
