package aggregates

import (
	"fmt"
	"strings"

	"github.com/yungbote/daghub-backend/internal/data/repos"
	"github.com/yungbote/daghub-backend/internal/domain/dimension"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
)

// referenceChecker rejects drafts that point at dimension rows that do not
// exist. Missing references surface as not_found.
type referenceChecker struct {
	dims repos.DimensionRepo
}

type missingRef struct {
	field string
	ids   []string
}

func (c referenceChecker) organisation(dbc dbctx.Context, d entry.OrganisationDraft) error {
	var missing []missingRef
	add := func(field string, kind dimension.Kind, id *int) error {
		if id == nil {
			return nil
		}
		bad, err := c.dims.MissingIDs(dbc, kind, []int{*id})
		if err != nil {
			return err
		}
		if len(bad) > 0 {
			missing = append(missing, missingRef{field: field, ids: intStrings(bad)})
		}
		return nil
	}
	if err := add("organisationType", dimension.KindOrganisationType, d.OrganisationType); err != nil {
		return err
	}
	if err := add("businessFundingStage", dimension.KindBusinessFundingStage, d.BusinessFundingStage); err != nil {
		return err
	}
	if err := add("businessGrowthStage", dimension.KindBusinessGrowthStage, d.BusinessGrowthStage); err != nil {
		return err
	}
	country := strings.ToUpper(strings.TrimSpace(d.HQCountry))
	badCountries, err := c.dims.MissingCountries(dbc, []string{country})
	if err != nil {
		return err
	}
	if len(badCountries) > 0 {
		missing = append(missing, missingRef{field: "hqCountry", ids: badCountries})
	} else if d.HQRegion != nil {
		ok, err := c.dims.RegionInCountry(dbc, *d.HQRegion, country)
		if err != nil {
			return err
		}
		if !ok {
			missing = append(missing, missingRef{field: "hqRegion", ids: intStrings([]int{*d.HQRegion})})
		}
	}
	if err := c.translations(dbc, d.Translations, &missing); err != nil {
		return err
	}
	return missingError(missing)
}

func (c referenceChecker) solution(dbc dbctx.Context, d entry.SolutionDraft) error {
	var missing []missingRef
	check := func(field string, kind dimension.Kind, ids []int) error {
		if len(ids) == 0 {
			return nil
		}
		bad, err := c.dims.MissingIDs(dbc, kind, ids)
		if err != nil {
			return err
		}
		if len(bad) > 0 {
			missing = append(missing, missingRef{field: field, ids: intStrings(bad)})
		}
		return nil
	}
	checks := []struct {
		field string
		kind  dimension.Kind
		ids   []int
	}{
		{"businessModels", dimension.KindBusinessModel, d.BusinessModels},
		{"channels", dimension.KindChannel, d.Channels},
		{"languages", dimension.KindLanguage, d.Languages},
		{"regions", dimension.KindRegion, d.Regions},
		{"sectors", dimension.KindSector, d.Sectors},
		{"subUseCases", dimension.KindSubUseCase, d.SubUseCases},
		{"tags", dimension.KindTag, d.Tags},
		{"technologies", dimension.KindTechnology, d.Technologies},
	}
	if d.PrimarySubUseCase != nil {
		checks = append(checks, struct {
			field string
			kind  dimension.Kind
			ids   []int
		}{"primarySubUseCase", dimension.KindSubUseCase, []int{*d.PrimarySubUseCase}})
	}
	for _, ch := range checks {
		if err := check(ch.field, ch.kind, ch.ids); err != nil {
			return err
		}
	}

	countries := make([]string, 0, len(d.Countries)+len(d.OtherRegions))
	for _, cc := range d.Countries {
		countries = append(countries, strings.ToUpper(strings.TrimSpace(cc)))
	}
	for _, r := range d.OtherRegions {
		countries = append(countries, strings.ToUpper(strings.TrimSpace(r.Country)))
	}
	badCountries, err := c.dims.MissingCountries(dbc, countries)
	if err != nil {
		return err
	}
	if len(badCountries) > 0 {
		missing = append(missing, missingRef{field: "countries", ids: badCountries})
	}
	if err := c.translations(dbc, d.Translations, &missing); err != nil {
		return err
	}
	return missingError(missing)
}

func (c referenceChecker) translations(dbc dbctx.Context, ts []entry.Translation, missing *[]missingRef) error {
	if len(ts) == 0 {
		return nil
	}
	ids := make([]int, 0, len(ts))
	for _, t := range ts {
		ids = append(ids, t.LanguageID)
	}
	bad, err := c.dims.MissingIDs(dbc, dimension.KindLanguage, ids)
	if err != nil {
		return err
	}
	if len(bad) > 0 {
		*missing = append(*missing, missingRef{field: "translations", ids: intStrings(bad)})
	}
	return nil
}

func missingError(missing []missingRef) error {
	if len(missing) == 0 {
		return nil
	}
	parts := make([]string, 0, len(missing))
	for _, m := range missing {
		parts = append(parts, fmt.Sprintf("%s [%s]", m.field, strings.Join(m.ids, ", ")))
	}
	return NotFoundError("unknown references: " + strings.Join(parts, "; "))
}

func intStrings(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, fmt.Sprint(id))
	}
	return out
}
