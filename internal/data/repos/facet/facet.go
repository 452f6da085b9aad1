package facet

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/daghub-backend/internal/domain/dimension"
	"github.com/yungbote/daghub-backend/internal/domain/facet"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

// MetricRow carries the user counts that feed the statistics rows.
type MetricRow struct {
	ID              int  `gorm:"column:id"`
	RegisteredUsers *int `gorm:"column:registered_users"`
	WomenUsers      *int `gorm:"column:women_users"`
	YouthUsers      *int `gorm:"column:youth_users"`
	SHFUsers        *int `gorm:"column:shf_users"`
}

// FacetRepo holds the read-only SQL of the query engine. Every method that
// takes ids restricts itself to those solutions.
type FacetRepo interface {
	MatchingSolutionIDs(dbc dbctx.Context, sel facet.Selection) ([]int, error)

	CountByCountry(dbc dbctx.Context, ids []int, countries []string) ([]dimension.KeyValue, error)
	CountByLaunch(dbc dbctx.Context, ids []int) ([]dimension.KeyValue, error)
	CountByOrganisationType(dbc dbctx.Context, ids []int) ([]dimension.KeyValue, error)
	CountByTechnology(dbc dbctx.Context, ids []int) ([]dimension.KeyValue, error)
	CountByUseCase(dbc dbctx.Context, ids []int) ([]dimension.KeyValue, error)
	CountByUseCaseNumber(dbc dbctx.Context, ids []int) ([]dimension.KeyValue, error)
	MetricRows(dbc dbctx.Context, ids []int) ([]MetricRow, error)
	// SolutionRows returns the solution list without translations.
	SolutionRows(dbc dbctx.Context, ids []int) ([]facet.SolutionSummary, error)

	// Values lists the {key, value} pairs of f used by active visible solutions.
	Values(dbc dbctx.Context, f facet.Facet) ([]dimension.KeyValue, error)
	CountryRegions(dbc dbctx.Context) ([]facet.CountryRegion, error)
}

type facetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFacetRepo(db *gorm.DB, baseLog *logger.Logger) FacetRepo {
	return &facetRepo{db: db, log: baseLog.With("repo", "FacetRepo")}
}

func (r *facetRepo) MatchingSolutionIDs(dbc dbctx.Context, sel facet.Selection) ([]int, error) {
	q := dbc.DB(r.db).Table("solutions s").
		Joins("JOIN organisations o ON o.id = s.organisation_id AND o.date_removed IS NULL").
		Where("s.date_removed IS NULL AND s.visible = ?", true)

	// a solution qualifies through an LMIC country link, which must also be a
	// selected country when countries are constrained
	lmic := "EXISTS (SELECT 1 FROM solution_countries sc JOIN countries c ON c.id = sc.country_id WHERE sc.solution_id = s.id AND c.lmic = ?"
	if len(sel.Countries) > 0 {
		q = q.Where(lmic+" AND sc.country_id IN ?)", true, sel.Countries)
	} else {
		q = q.Where(lmic+")", true)
	}

	joinFacet := func(table, column string, ids []int) {
		if len(ids) == 0 {
			return
		}
		q = q.Where(fmt.Sprintf("EXISTS (SELECT 1 FROM %s x WHERE x.solution_id = s.id AND x.%s IN ?)", table, column), ids)
	}
	joinFacet("solution_technologies", "technology_id", sel.Technologies)
	joinFacet("solution_channels", "channel_id", sel.Channels)
	joinFacet("solution_tags", "tag_id", sel.Tags)
	if len(sel.UseCases) > 0 {
		q = q.Where("EXISTS (SELECT 1 FROM solution_sub_use_cases x JOIN sub_use_cases su ON su.id = x.sub_use_case_id WHERE x.solution_id = s.id AND su.use_case_id IN ?)", sel.UseCases)
	}
	if len(sel.OrganisationTypes) > 0 {
		q = q.Where("o.organisation_type_id IN ?", sel.OrganisationTypes)
	}
	if len(sel.Stages) > 0 {
		q = q.Where("o.business_growth_stage_id IN ?", sel.Stages)
	}

	var ids []int
	if err := q.Order("s.id ASC").Pluck("s.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

type stringCount struct {
	K *string
	N int
}

type intCount struct {
	K *int
	N int
}

func stringPairs(rows []stringCount) []dimension.KeyValue {
	out := make([]dimension.KeyValue, 0, len(rows))
	for _, rw := range rows {
		var key any
		if rw.K != nil {
			key = *rw.K
		}
		out = append(out, dimension.KeyValue{Key: key, Value: rw.N})
	}
	return out
}

func intPairs(rows []intCount) []dimension.KeyValue {
	out := make([]dimension.KeyValue, 0, len(rows))
	for _, rw := range rows {
		var key any
		if rw.K != nil {
			key = *rw.K
		}
		out = append(out, dimension.KeyValue{Key: key, Value: rw.N})
	}
	return out
}

func (r *facetRepo) CountByCountry(dbc dbctx.Context, ids []int, countries []string) ([]dimension.KeyValue, error) {
	q := dbc.DB(r.db).Table("solution_countries sc").
		Select("sc.country_id AS k, COUNT(sc.solution_id) AS n").
		Joins("JOIN countries c ON c.id = sc.country_id").
		Where("c.lmic = ? AND sc.solution_id IN ?", true, ids)
	if len(countries) > 0 {
		q = q.Where("sc.country_id IN ?", countries)
	}
	var rows []stringCount
	if err := q.Group("sc.country_id").Order("sc.country_id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return stringPairs(rows), nil
}

func (r *facetRepo) CountByLaunch(dbc dbctx.Context, ids []int) ([]dimension.KeyValue, error) {
	var rows []intCount
	err := dbc.DB(r.db).Table("solutions s").
		Select("s.launch AS k, COUNT(s.id) AS n").
		Where("s.date_removed IS NULL AND s.id IN ?", ids).
		Group("s.launch").
		Order("s.launch ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return intPairs(rows), nil
}

func (r *facetRepo) CountByOrganisationType(dbc dbctx.Context, ids []int) ([]dimension.KeyValue, error) {
	var rows []stringCount
	err := dbc.DB(r.db).Table("solutions s").
		Select("ot.description AS k, COUNT(s.id) AS n").
		Joins("LEFT JOIN organisations o ON o.id = s.organisation_id").
		Joins("LEFT JOIN organisation_types ot ON ot.id = o.organisation_type_id").
		Where("s.date_removed IS NULL AND s.id IN ?", ids).
		Group("ot.description").
		Order("ot.description ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return stringPairs(rows), nil
}

func (r *facetRepo) CountByTechnology(dbc dbctx.Context, ids []int) ([]dimension.KeyValue, error) {
	var rows []stringCount
	err := dbc.DB(r.db).Table("solution_technologies x").
		Select("t.description AS k, COUNT(x.solution_id) AS n").
		Joins("LEFT JOIN technologies t ON t.id = x.technology_id").
		Where("x.solution_id IN ?", ids).
		Group("t.description").
		Order("t.description ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return stringPairs(rows), nil
}

func (r *facetRepo) CountByUseCase(dbc dbctx.Context, ids []int) ([]dimension.KeyValue, error) {
	var rows []stringCount
	err := dbc.DB(r.db).Table("solution_sub_use_cases x").
		Select("uc.description AS k, COUNT(DISTINCT x.solution_id) AS n").
		Joins("LEFT JOIN sub_use_cases su ON su.id = x.sub_use_case_id").
		Joins("LEFT JOIN use_cases uc ON uc.id = su.use_case_id").
		Where("x.solution_id IN ?", ids).
		Group("uc.description").
		Order("uc.description ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return stringPairs(rows), nil
}

func (r *facetRepo) CountByUseCaseNumber(dbc dbctx.Context, ids []int) ([]dimension.KeyValue, error) {
	db := dbc.DB(r.db)
	perSolution := db.Table("solution_sub_use_cases x").
		Select("x.solution_id AS solution_id, COUNT(DISTINCT su.use_case_id) AS use_case_number").
		Joins("LEFT JOIN sub_use_cases su ON su.id = x.sub_use_case_id").
		Where("x.solution_id IN ?", ids).
		Group("x.solution_id")

	var rows []intCount
	err := db.Table("(?) AS per_solution", perSolution).
		Select("use_case_number AS k, COUNT(solution_id) AS n").
		Group("use_case_number").
		Order("use_case_number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return intPairs(rows), nil
}

func (r *facetRepo) MetricRows(dbc dbctx.Context, ids []int) ([]MetricRow, error) {
	var rows []MetricRow
	err := dbc.DB(r.db).Table("solutions").
		Select("id, registered_users, women_users, youth_users, shf_users").
		Where("date_removed IS NULL AND id IN ?", ids).
		Order("id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *facetRepo) SolutionRows(dbc dbctx.Context, ids []int) ([]facet.SolutionSummary, error) {
	type row struct {
		ID               int
		Name             string
		Description      string
		URL              string `gorm:"column:url"`
		OrganisationName *string
	}
	var rows []row
	err := dbc.DB(r.db).Table("solutions s").
		Select("s.id AS id, s.name AS name, s.description AS description, s.url AS url, o.name AS organisation_name").
		Joins("LEFT JOIN organisations o ON o.id = s.organisation_id").
		Where("s.date_removed IS NULL AND s.id IN ?", ids).
		Order("s.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]facet.SolutionSummary, 0, len(rows))
	for _, rw := range rows {
		out = append(out, facet.SolutionSummary{
			ID:               rw.ID,
			Name:             rw.Name,
			Description:      rw.Description,
			URL:              rw.URL,
			OrganisationName: rw.OrganisationName,
		})
	}
	return out, nil
}

// valueSource describes how a facet's values reach a solution row aliased s.
type valueSource struct {
	from  string
	joins []string
	// dim is the alias of the dimension table holding id and description
	dim string
}

var valueSources = map[facet.Facet]valueSource{
	facet.FacetTechnology: {
		from:  "solution_technologies x",
		joins: []string{"JOIN technologies d ON d.id = x.technology_id"},
		dim:   "d",
	},
	facet.FacetChannel: {
		from:  "solution_channels x",
		joins: []string{"JOIN channels d ON d.id = x.channel_id"},
		dim:   "d",
	},
	facet.FacetTag: {
		from:  "solution_tags x",
		joins: []string{"JOIN tags d ON d.id = x.tag_id"},
		dim:   "d",
	},
	facet.FacetSector: {
		from:  "solution_sectors x",
		joins: []string{"JOIN sectors d ON d.id = x.sector_id"},
		dim:   "d",
	},
	facet.FacetUseCase: {
		from: "solution_sub_use_cases x",
		joins: []string{
			"JOIN sub_use_cases su ON su.id = x.sub_use_case_id",
			"JOIN use_cases d ON d.id = su.use_case_id",
		},
		dim: "d",
	},
	facet.FacetOrganisationType: {
		from: "solutions x",
		joins: []string{
			"JOIN organisations o ON o.id = x.organisation_id AND o.date_removed IS NULL",
			"JOIN organisation_types d ON d.id = o.organisation_type_id",
		},
		dim: "d",
	},
	facet.FacetStage: {
		from: "solutions x",
		joins: []string{
			"JOIN organisations o ON o.id = x.organisation_id AND o.date_removed IS NULL",
			"JOIN business_growth_stages d ON d.id = o.business_growth_stage_id",
		},
		dim: "d",
	},
}

func (r *facetRepo) Values(dbc dbctx.Context, f facet.Facet) ([]dimension.KeyValue, error) {
	db := dbc.DB(r.db)
	if f == facet.FacetCountry {
		type row struct {
			K string
			V string
		}
		var rows []row
		err := db.Table("solution_countries x").
			Select("c.id AS k, c.description AS v").
			Joins("JOIN countries c ON c.id = x.country_id").
			Joins("JOIN solutions s ON s.id = x.solution_id AND s.date_removed IS NULL AND s.visible = ?", true).
			Where("c.lmic = ?", true).
			Group("c.id, c.description").
			Order("c.id ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		out := make([]dimension.KeyValue, 0, len(rows))
		for _, rw := range rows {
			out = append(out, dimension.KeyValue{Key: rw.K, Value: rw.V})
		}
		return out, nil
	}

	src, ok := valueSources[f]
	if !ok {
		return nil, fmt.Errorf("no value source for facet %q", f)
	}
	q := db.Table(src.from)
	if src.from == "solutions x" {
		q = q.Where("x.date_removed IS NULL AND x.visible = ?", true)
	} else {
		q = q.Joins("JOIN solutions s ON s.id = x.solution_id AND s.date_removed IS NULL AND s.visible = ?", true)
	}
	for _, j := range src.joins {
		q = q.Joins(j)
	}
	type row struct {
		K int
		V string
	}
	var rows []row
	err := q.Select(fmt.Sprintf("%[1]s.id AS k, %[1]s.description AS v", src.dim)).
		Group(fmt.Sprintf("%[1]s.id, %[1]s.description", src.dim)).
		Order(fmt.Sprintf("%[1]s.description ASC, %[1]s.id ASC", src.dim)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]dimension.KeyValue, 0, len(rows))
	for _, rw := range rows {
		out = append(out, dimension.KeyValue{Key: rw.K, Value: rw.V})
	}
	return out, nil
}

func (r *facetRepo) CountryRegions(dbc dbctx.Context) ([]facet.CountryRegion, error) {
	out := []facet.CountryRegion{}
	err := dbc.DB(r.db).Table("regions r").
		Select("r.id AS id, r.description AS description, r.country_id AS country_id, c.description AS country").
		Joins("JOIN countries c ON c.id = r.country_id").
		Order("r.country_id ASC, r.id ASC").
		Scan(&out).Error
	return out, err
}
