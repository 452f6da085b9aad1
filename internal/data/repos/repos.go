package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/daghub-backend/internal/data/repos/association"
	"github.com/yungbote/daghub-backend/internal/data/repos/dimension"
	"github.com/yungbote/daghub-backend/internal/data/repos/entry"
	"github.com/yungbote/daghub-backend/internal/data/repos/facet"
	"github.com/yungbote/daghub-backend/internal/data/repos/querylog"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

type DimensionRepo = dimension.DimensionRepo
type FreeTextRepo = dimension.FreeTextRepo

type OrganisationRepo = entry.OrganisationRepo
type SolutionRepo = entry.SolutionRepo
type OwnersRepo = entry.OwnersRepo

type AssociationRepo = association.AssociationRepo
type TranslationRepo = association.TranslationRepo

type FacetRepo = facet.FacetRepo
type MetricRow = facet.MetricRow

type QueryLogRepo = querylog.QueryLogRepo

// Set bundles every repo over one *gorm.DB.
type Set struct {
	Dimensions    DimensionRepo
	FreeText      FreeTextRepo
	Organisations OrganisationRepo
	Solutions     SolutionRepo
	Owners        OwnersRepo
	Associations  AssociationRepo
	Translations  TranslationRepo
	Facets        FacetRepo
	QueryLogs     QueryLogRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		Dimensions:    dimension.NewDimensionRepo(db, log),
		FreeText:      dimension.NewFreeTextRepo(db, log),
		Organisations: entry.NewOrganisationRepo(db, log),
		Solutions:     entry.NewSolutionRepo(db, log),
		Owners:        entry.NewOwnersRepo(db, log),
		Associations:  association.NewAssociationRepo(db, log),
		Translations:  association.NewTranslationRepo(db, log),
		Facets:        facet.NewFacetRepo(db, log),
		QueryLogs:     querylog.NewQueryLogRepo(db, log),
	}
}
