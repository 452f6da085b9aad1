package dimension

// Origin tags where a dimension row came from. Only user-origin rows are
// eligible for orphan sweep.
type Origin string

const (
	OriginSeed Origin = "seed"
	OriginUser Origin = "user"
)

// UserIDFloor is the first id handed out to rows created through user input.
// Seed data lives strictly below it.
const UserIDFloor = 10000

// Kind names a dimension table for lookups and cache keys.
type Kind string

const (
	KindBusinessFundingStage Kind = "businessFundingStages"
	KindBusinessGrowthStage  Kind = "businessGrowthStages"
	KindBusinessModel        Kind = "businessModels"
	KindChannel              Kind = "channels"
	KindCountry              Kind = "countries"
	KindLanguage             Kind = "languages"
	KindOrganisationType     Kind = "organisationTypes"
	KindRegion               Kind = "regions"
	KindSector               Kind = "sectors"
	KindSubUseCase           Kind = "subUseCases"
	KindTag                  Kind = "tags"
	KindTechnology           Kind = "technologies"
	KindUseCase              Kind = "useCases"
)

// AllKinds lists every dimension table in a stable order.
var AllKinds = []Kind{
	KindBusinessFundingStage,
	KindBusinessGrowthStage,
	KindBusinessModel,
	KindChannel,
	KindCountry,
	KindLanguage,
	KindOrganisationType,
	KindRegion,
	KindSector,
	KindSubUseCase,
	KindTag,
	KindTechnology,
	KindUseCase,
}

// ParseKind resolves a route segment to a Kind.
func ParseKind(raw string) (Kind, bool) {
	for _, k := range AllKinds {
		if string(k) == raw {
			return k, true
		}
	}
	return "", false
}

// Table returns the relational table backing the kind.
func (k Kind) Table() string {
	switch k {
	case KindBusinessFundingStage:
		return "business_funding_stages"
	case KindBusinessGrowthStage:
		return "business_growth_stages"
	case KindBusinessModel:
		return "business_models"
	case KindChannel:
		return "channels"
	case KindCountry:
		return "countries"
	case KindLanguage:
		return "languages"
	case KindOrganisationType:
		return "organisation_types"
	case KindRegion:
		return "regions"
	case KindSector:
		return "sectors"
	case KindSubUseCase:
		return "sub_use_cases"
	case KindTag:
		return "tags"
	case KindTechnology:
		return "technologies"
	case KindUseCase:
		return "use_cases"
	default:
		return ""
	}
}

// Base is the id+description shape shared by every integer-keyed dimension.
type Base struct {
	ID          int    `gorm:"primaryKey;autoIncrement;column:id" json:"id" yaml:"id"`
	Description string `gorm:"not null;column:description" json:"description" yaml:"description"`
	Origin      Origin `gorm:"type:varchar(8);not null;default:'seed';column:origin" json:"-" yaml:"-"`
}

// Sweepable reports whether orphan cleanup may delete the row.
func (b Base) Sweepable() bool { return b.Origin == OriginUser }

type BusinessFundingStage struct {
	Base `yaml:",inline"`
}

func (BusinessFundingStage) TableName() string { return "business_funding_stages" }

type BusinessGrowthStage struct {
	Base `yaml:",inline"`
}

func (BusinessGrowthStage) TableName() string { return "business_growth_stages" }

type BusinessModel struct {
	Base `yaml:",inline"`
}

func (BusinessModel) TableName() string { return "business_models" }

type Channel struct {
	Base `yaml:",inline"`
}

func (Channel) TableName() string { return "channels" }

type OrganisationType struct {
	Base `yaml:",inline"`
}

func (OrganisationType) TableName() string { return "organisation_types" }

type Sector struct {
	Base `yaml:",inline"`
}

func (Sector) TableName() string { return "sectors" }

type Tag struct {
	Base `yaml:",inline"`
}

func (Tag) TableName() string { return "tags" }

type Technology struct {
	Base `yaml:",inline"`
}

func (Technology) TableName() string { return "technologies" }

// Language descriptions are unique; free-text languages resolve by description.
type Language struct {
	ID          int    `gorm:"primaryKey;autoIncrement;column:id" json:"id" yaml:"id"`
	Description string `gorm:"not null;uniqueIndex:uq_languages_description;column:description" json:"description" yaml:"description"`
	Origin      Origin `gorm:"type:varchar(8);not null;default:'seed';column:origin" json:"-" yaml:"-"`
}

func (Language) TableName() string { return "languages" }

func (l Language) Sweepable() bool { return l.Origin == OriginUser }

// Country is keyed by its ISO 3166-1 alpha-3 code.
type Country struct {
	ID          string   `gorm:"primaryKey;type:varchar(3);column:id" json:"id" yaml:"id"`
	Description string   `gorm:"not null;column:description" json:"description" yaml:"description"`
	RegionName  string   `gorm:"column:region_name" json:"region" yaml:"region"`
	LMIC        bool     `gorm:"not null;default:false;column:lmic" json:"lmic" yaml:"lmic"`
	Regions     []Region `gorm:"foreignKey:CountryID" json:"regions,omitempty" yaml:"regions,omitempty"`
}

func (Country) TableName() string { return "countries" }

// Region is unique per (description, country).
type Region struct {
	ID          int    `gorm:"primaryKey;autoIncrement;column:id" json:"id" yaml:"id"`
	Description string `gorm:"not null;uniqueIndex:uq_regions_description_country;column:description" json:"description" yaml:"description"`
	CountryID   string `gorm:"type:varchar(3);not null;index;uniqueIndex:uq_regions_description_country;column:country_id" json:"countryId" yaml:"-"`
	Origin      Origin `gorm:"type:varchar(8);not null;default:'seed';column:origin" json:"-" yaml:"-"`
}

func (Region) TableName() string { return "regions" }

func (r Region) Sweepable() bool { return r.Origin == OriginUser }

type UseCase struct {
	ID          int          `gorm:"primaryKey;autoIncrement;column:id" json:"id" yaml:"id"`
	Description string       `gorm:"not null;column:description" json:"description" yaml:"description"`
	Origin      Origin       `gorm:"type:varchar(8);not null;default:'seed';column:origin" json:"-" yaml:"-"`
	SubUseCases []SubUseCase `gorm:"foreignKey:UseCaseID" json:"subUseCases,omitempty" yaml:"subUseCases,omitempty"`
}

func (UseCase) TableName() string { return "use_cases" }

type SubUseCase struct {
	ID          int    `gorm:"primaryKey;autoIncrement;column:id" json:"id" yaml:"id"`
	Description string `gorm:"not null;column:description" json:"description" yaml:"description"`
	UseCaseID   int    `gorm:"not null;index;column:use_case_id" json:"useCaseId" yaml:"-"`
	Origin      Origin `gorm:"type:varchar(8);not null;default:'seed';column:origin" json:"-" yaml:"-"`
}

func (SubUseCase) TableName() string { return "sub_use_cases" }

// Item is the generic {id, description} projection used by list endpoints.
type Item struct {
	ID          any    `json:"id"`
	Description string `json:"description"`
}

// KeyValue is the {key, value} projection used by facet lookups and counts.
type KeyValue struct {
	Key   any `json:"key"`
	Value any `json:"value"`
}
