package facet

import (
	"slices"
	"strings"

	"github.com/yungbote/daghub-backend/internal/domain/dimension"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
)

// Facet names a value list offered to search clients.
type Facet string

const (
	FacetTechnology       Facet = "technology"
	FacetChannel          Facet = "channel"
	FacetUseCase          Facet = "useCase"
	FacetOrganisationType Facet = "organisationType"
	FacetStage            Facet = "stage"
	FacetTag              Facet = "tag"
	FacetCountry          Facet = "country"
	FacetSector           Facet = "sector"
	FacetCountryRegion    Facet = "countryRegion"
)

var Facets = []Facet{
	FacetTechnology,
	FacetChannel,
	FacetUseCase,
	FacetOrganisationType,
	FacetStage,
	FacetTag,
	FacetCountry,
	FacetSector,
	FacetCountryRegion,
}

func ParseFacet(raw string) (Facet, bool) {
	for _, f := range Facets {
		if string(f) == raw {
			return f, true
		}
	}
	return "", false
}

// Selection holds the selected ids per facet. An empty list leaves the facet
// unconstrained; values within one list are alternatives.
type Selection struct {
	Technologies      []int    `json:"technologies" form:"technologies"`
	Channels          []int    `json:"channels" form:"channels"`
	UseCases          []int    `json:"useCases" form:"useCases"`
	OrganisationTypes []int    `json:"organisationTypes" form:"organisationTypes"`
	Stages            []int    `json:"stages" form:"stages"`
	Tags              []int    `json:"tags" form:"tags"`
	Countries         []string `json:"countries" form:"countries"`
}

// Normalized returns a copy with every list sorted and de-duplicated and
// country codes upper-cased.
func (s Selection) Normalized() Selection {
	countries := make([]string, 0, len(s.Countries))
	for _, c := range s.Countries {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			countries = append(countries, c)
		}
	}
	return Selection{
		Technologies:      sortedUnique(s.Technologies),
		Channels:          sortedUnique(s.Channels),
		UseCases:          sortedUnique(s.UseCases),
		OrganisationTypes: sortedUnique(s.OrganisationTypes),
		Stages:            sortedUnique(s.Stages),
		Tags:              sortedUnique(s.Tags),
		Countries:         sortedUnique(countries),
	}
}

// Empty reports whether no facet is constrained.
func (s Selection) Empty() bool {
	return len(s.Technologies) == 0 &&
		len(s.Channels) == 0 &&
		len(s.UseCases) == 0 &&
		len(s.OrganisationTypes) == 0 &&
		len(s.Stages) == 0 &&
		len(s.Tags) == 0 &&
		len(s.Countries) == 0
}

func sortedUnique[T int | string](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}

// Statistic labels the paired user metric of a statistics row.
type Statistic string

const (
	StatisticMin Statistic = "min"
	StatisticMax Statistic = "max"
	StatisticAvg Statistic = "avg"
)

// Metric is a user count paired with registered users in statistics.
type Metric string

const (
	MetricWomen Metric = "women"
	MetricYouth Metric = "youth"
	MetricSHF   Metric = "shf"
)

var Metrics = []Metric{MetricWomen, MetricYouth, MetricSHF}

type StatisticRow struct {
	Label           Metric    `json:"label"`
	Statistic       Statistic `json:"statistic"`
	RegisteredUsers *float64  `json:"registeredusers"`
	Users           *float64  `json:"users"`
}

// SolutionSummary is one row of the matched solution list. Translations is
// null when the solution has none.
type SolutionSummary struct {
	ID               int                      `json:"id"`
	Name             string                   `json:"name"`
	Description      string                   `json:"description"`
	URL              string                   `json:"url"`
	OrganisationName *string                  `json:"organisationname"`
	Translations     []entry.NamedTranslation `json:"translations"`
}

// Result is the aggregate envelope of a query. Every field is nil when no
// solution matched, and non-nil (possibly empty) otherwise.
type Result struct {
	CountSolutionByCountry          []dimension.KeyValue `json:"countSolutionByCountry"`
	CountSolutionByLaunch           []dimension.KeyValue `json:"countSolutionByLaunch"`
	CountSolutionByOrganisationType []dimension.KeyValue `json:"countSolutionByOrganisationType"`
	CountSolutionByTechnology       []dimension.KeyValue `json:"countSolutionByTechnology"`
	CountSolutionByUseCase          []dimension.KeyValue `json:"countSolutionByUseCase"`
	CountSolutionByUseCaseNumber    []dimension.KeyValue `json:"countSolutionByUseCaseNumber"`
	Statistics                      []StatisticRow       `json:"statistics"`
	Solutions                       []SolutionSummary    `json:"solutions"`
}

// SolutionIDs lists the ids of the matched solutions in order.
func (r Result) SolutionIDs() []int {
	if r.Solutions == nil {
		return nil
	}
	ids := make([]int, 0, len(r.Solutions))
	for _, s := range r.Solutions {
		ids = append(ids, s.ID)
	}
	return ids
}

// Matched reports whether the query matched at least one solution.
func (r Result) Matched() bool { return r.Solutions != nil }

// CountryRegion is one row of the region lookup.
type CountryRegion struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	CountryID   string `json:"countryId"`
	Country     string `json:"country"`
}
