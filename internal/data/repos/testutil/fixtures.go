package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/domain/association"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
)

// Seed reference ids used by fixtures.
const (
	OrgTypePrivate   = 1
	OrgTypeNGO       = 2
	StageIdeation    = 1
	StageScaling     = 4
	FundingSeed      = 3
	RegionNairobi    = 60
	RegionNakuru     = 61
	RegionLagos      = 70
	SubUseCaseAdvice = 1
	SubUseCasePrice  = 5
	SubUseCaseCredit = 6
)

func SeedOrganisation(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, owners ...string) *types.Organisation {
	tb.Helper()
	o := &types.Organisation{
		Name:                   name,
		URL:                    "http://example.org",
		OrganisationTypeID:     OrgTypePrivate,
		HQCountryID:            "KEN",
		HQRegionID:             RegionNairobi,
		BusinessFundingStageID: FundingSeed,
		BusinessGrowthStageID:  StageScaling,
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed organisation: %v", err)
	}
	SeedOwners(tb, ctx, tx, entry.KindOrganisation, o.ID, owners...)
	o.Owners = owners
	return o
}

func SeedOwners(tb testing.TB, ctx context.Context, tx *gorm.DB, kind entry.Kind, id int, owners ...string) {
	tb.Helper()
	for i, u := range owners {
		row := &types.EntryOwner{EntryKind: kind, EntryID: id, UserID: u, Position: i}
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			tb.Fatalf("seed owner: %v", err)
		}
	}
}

// SeedSolution creates a visible solution under org with the given
// association rows. mutate may adjust scalar fields before insert.
func SeedSolution(tb testing.TB, ctx context.Context, tx *gorm.DB, org *types.Organisation, set association.Set, mutate func(*types.Solution)) *types.Solution {
	tb.Helper()
	s := &types.Solution{
		Name:                "solution",
		Description:         "a solution",
		URL:                 "http://example.org/solution",
		Launch:              2020,
		Visible:             true,
		OrganisationID:      org.ID,
		PrimarySubUseCaseID: SubUseCaseAdvice,
	}
	if mutate != nil {
		mutate(s)
	}
	visible := s.Visible
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed solution: %v", err)
	}
	// Create copies the column default back into s, so the flag is read first
	if !visible {
		s.Visible = false
		if err := tx.WithContext(ctx).Model(&types.Solution{}).Where("id = ?", s.ID).Update("visible", false).Error; err != nil {
			tb.Fatalf("seed solution visibility: %v", err)
		}
	}
	SeedOwners(tb, ctx, tx, entry.KindSolution, s.ID, org.Owners...)
	SeedAssociations(tb, ctx, tx, s.ID, set)
	return s
}

func SeedAssociations(tb testing.TB, ctx context.Context, tx *gorm.DB, solutionID int, set association.Set) {
	tb.Helper()
	for _, c := range set.Countries {
		if err := tx.WithContext(ctx).Create(&types.SolutionCountry{SolutionID: solutionID, CountryID: c}).Error; err != nil {
			tb.Fatalf("seed solution country: %v", err)
		}
	}
	for _, axis := range association.Axes {
		for _, id := range set.IntIDs(axis) {
			row := map[string]any{"solution_id": solutionID, axis.Column(): id}
			if err := tx.WithContext(ctx).Table(axis.Table()).Create(row).Error; err != nil {
				tb.Fatalf("seed %s: %v", axis.Table(), err)
			}
		}
	}
}

func IntPtr(v int) *int { return &v }
