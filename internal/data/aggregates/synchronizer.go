package aggregates

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/daghub-backend/internal/data/repos"
	"github.com/yungbote/daghub-backend/internal/domain/association"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

// DimensionResolver maps free-text dimension values to ids by natural key,
// creating a user-origin row when no exact match exists.
type DimensionResolver interface {
	ResolveLanguage(dbc dbctx.Context, description string) (id int, created bool, err error)
	ResolveRegion(dbc dbctx.Context, countryID, description string) (id int, created bool, err error)
}

// DimensionSweeper deletes user-origin dimension rows nothing references.
type DimensionSweeper interface {
	SweepLanguages(dbc dbctx.Context, ids []int) ([]int, error)
	SweepRegions(dbc dbctx.Context, ids []int) ([]int, error)
}

type freeTextResolver struct {
	repo repos.FreeTextRepo
}

// NewFreeTextResolver resolves languages by description and regions by
// (description, country) through repo.
func NewFreeTextResolver(repo repos.FreeTextRepo) DimensionResolver {
	return &freeTextResolver{repo: repo}
}

func (r *freeTextResolver) ResolveLanguage(dbc dbctx.Context, description string) (int, bool, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return 0, false, ValidationError("empty language")
	}
	id, err := r.repo.FindLanguage(dbc, description)
	if err != nil || id != 0 {
		return id, false, err
	}
	id, err = r.repo.CreateLanguage(dbc, description)
	return id, err == nil, err
}

func (r *freeTextResolver) ResolveRegion(dbc dbctx.Context, countryID, description string) (int, bool, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return 0, false, ValidationError("empty region")
	}
	id, err := r.repo.FindRegion(dbc, countryID, description)
	if err != nil || id != 0 {
		return id, false, err
	}
	id, err = r.repo.CreateRegion(dbc, countryID, description)
	return id, err == nil, err
}

// DesiredAssociations is the full target state of one solution's join rows.
// OtherLanguages and OtherRegions are free text resolved before insert.
type DesiredAssociations struct {
	Set            association.Set
	Translations   []entry.Translation
	OtherLanguages []string
	OtherRegions   []entry.OtherRegions
}

// DesiredFromDraft builds the target state of a solution draft. The primary
// sub-use-case is stored among the sub-use-cases as well.
func DesiredFromDraft(d entry.SolutionDraft) DesiredAssociations {
	subUseCases := slices.Clone(d.SubUseCases)
	if d.PrimarySubUseCase != nil && !slices.Contains(subUseCases, *d.PrimarySubUseCase) {
		subUseCases = append([]int{*d.PrimarySubUseCase}, subUseCases...)
	}
	countries := make([]string, 0, len(d.Countries))
	for _, c := range d.Countries {
		countries = append(countries, strings.ToUpper(strings.TrimSpace(c)))
	}
	return DesiredAssociations{
		Set: association.Set{
			BusinessModels: d.BusinessModels,
			Channels:       d.Channels,
			Countries:      countries,
			Languages:      d.Languages,
			Regions:        d.Regions,
			Sectors:        d.Sectors,
			SubUseCases:    subUseCases,
			Tags:           d.Tags,
			Technologies:   d.Technologies,
		},
		Translations:   d.Translations,
		OtherLanguages: d.OtherLanguages,
		OtherRegions:   d.OtherRegions,
	}
}

// SyncResult reports the dimension rows a replacement created or swept.
type SyncResult struct {
	CreatedLanguages []int
	CreatedRegions   []int
	SweptLanguages   []int
	SweptRegions     []int
}

// DimensionsChanged reports whether any language or region row appeared or
// disappeared.
func (r SyncResult) DimensionsChanged() bool {
	return len(r.CreatedLanguages)+len(r.CreatedRegions)+len(r.SweptLanguages)+len(r.SweptRegions) > 0
}

// Synchronizer rewrites every association row of a solution. It must run
// inside the caller's transaction.
type Synchronizer struct {
	associations repos.AssociationRepo
	translations repos.TranslationRepo
	resolver     DimensionResolver
	sweeper      DimensionSweeper
	log          *logger.Logger
}

func NewSynchronizer(
	associations repos.AssociationRepo,
	translations repos.TranslationRepo,
	resolver DimensionResolver,
	sweeper DimensionSweeper,
	log *logger.Logger,
) *Synchronizer {
	return &Synchronizer{
		associations: associations,
		translations: translations,
		resolver:     resolver,
		sweeper:      sweeper,
		log:          log.With("service", "AssociationSynchronizer"),
	}
}

// ReplaceAssociations replaces the solution's join rows and translations with
// want, then sweeps the languages and regions the solution referenced before
// the rewrite and no longer does.
func (s *Synchronizer) ReplaceAssociations(dbc dbctx.Context, solutionID int, want DesiredAssociations) (SyncResult, error) {
	var out SyncResult
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := otel.Tracer("daghub/synchronizer").Start(ctx, "ReplaceAssociations")
	defer span.End()
	span.SetAttributes(attribute.Int("solution.id", solutionID))
	dbc.Ctx = ctx

	set := want.Set

	// 1. free-text languages
	for _, desc := range want.OtherLanguages {
		id, created, err := s.resolver.ResolveLanguage(dbc, desc)
		if err != nil {
			return out, fmt.Errorf("resolve language %q: %w", desc, err)
		}
		if created {
			out.CreatedLanguages = append(out.CreatedLanguages, id)
		}
		set.Languages = append(set.Languages, id)
	}

	// 2. free-text regions, per country
	for _, group := range want.OtherRegions {
		country := strings.ToUpper(strings.TrimSpace(group.Country))
		for _, desc := range group.Regions {
			id, created, err := s.resolver.ResolveRegion(dbc, country, desc)
			if err != nil {
				return out, fmt.Errorf("resolve region %q in %s: %w", desc, country, err)
			}
			if created {
				out.CreatedRegions = append(out.CreatedRegions, id)
			}
			set.Regions = append(set.Regions, id)
		}
	}

	// 3. pre-image for the orphan sweep
	prevLanguages, err := s.associations.IntIDs(dbc, association.AxisLanguage, solutionID)
	if err != nil {
		return out, err
	}
	prevTranslations, err := s.translations.ListSolution(dbc, solutionID)
	if err != nil {
		return out, err
	}
	for _, t := range prevTranslations {
		prevLanguages = append(prevLanguages, t.LanguageID)
	}
	prevRegions, err := s.associations.IntIDs(dbc, association.AxisRegion, solutionID)
	if err != nil {
		return out, err
	}

	// 4 + 5. full rewrite
	if err := s.associations.DeleteAll(dbc, solutionID); err != nil {
		return out, err
	}
	if err := s.associations.Insert(dbc, solutionID, set); err != nil {
		return out, err
	}
	if err := s.translations.ReplaceSolution(dbc, solutionID, want.Translations); err != nil {
		return out, fmt.Errorf("replace solution translations: %w", err)
	}

	// 6. sweep against the pre-image
	if out.SweptLanguages, err = s.sweeper.SweepLanguages(dbc, compactIDs(prevLanguages)); err != nil {
		return out, fmt.Errorf("sweep languages: %w", err)
	}
	if out.SweptRegions, err = s.sweeper.SweepRegions(dbc, compactIDs(prevRegions)); err != nil {
		return out, fmt.Errorf("sweep regions: %w", err)
	}

	if out.DimensionsChanged() {
		s.log.Info("Solution associations replaced",
			"solution_id", solutionID,
			"created_languages", out.CreatedLanguages,
			"created_regions", out.CreatedRegions,
			"swept_languages", out.SweptLanguages,
			"swept_regions", out.SweptRegions,
		)
	}
	return out, nil
}

func compactIDs(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
