package association

// Axis names one Solution × Dimension join table.
type Axis string

const (
	AxisBusinessModel Axis = "business_model"
	AxisChannel       Axis = "channel"
	AxisCountry       Axis = "country"
	AxisLanguage      Axis = "language"
	AxisRegion        Axis = "region"
	AxisSector        Axis = "sector"
	AxisSubUseCase    Axis = "sub_use_case"
	AxisTag           Axis = "tag"
	AxisTechnology    Axis = "technology"
)

// Axes lists every join table keyed by solution.
var Axes = []Axis{
	AxisBusinessModel,
	AxisChannel,
	AxisCountry,
	AxisLanguage,
	AxisRegion,
	AxisSector,
	AxisSubUseCase,
	AxisTag,
	AxisTechnology,
}

// Table is the join table name.
func (a Axis) Table() string { return "solution_" + pluralize(string(a)) }

// Column is the dimension foreign key column inside the join table.
func (a Axis) Column() string { return string(a) + "_id" }

func pluralize(s string) string {
	switch s {
	case "country":
		return "countries"
	case "technology":
		return "technologies"
	default:
		return s + "s"
	}
}

type SolutionBusinessModel struct {
	SolutionID      int `gorm:"primaryKey;autoIncrement:false;column:solution_id"`
	BusinessModelID int `gorm:"primaryKey;autoIncrement:false;index;column:business_model_id"`
}

func (SolutionBusinessModel) TableName() string { return AxisBusinessModel.Table() }

type SolutionChannel struct {
	SolutionID int `gorm:"primaryKey;autoIncrement:false;column:solution_id"`
	ChannelID  int `gorm:"primaryKey;autoIncrement:false;index;column:channel_id"`
}

func (SolutionChannel) TableName() string { return AxisChannel.Table() }

type SolutionCountry struct {
	SolutionID int    `gorm:"primaryKey;autoIncrement:false;column:solution_id"`
	CountryID  string `gorm:"primaryKey;type:varchar(3);index;column:country_id"`
}

func (SolutionCountry) TableName() string { return AxisCountry.Table() }

type SolutionLanguage struct {
	SolutionID int `gorm:"primaryKey;autoIncrement:false;column:solution_id"`
	LanguageID int `gorm:"primaryKey;autoIncrement:false;index;column:language_id"`
}

func (SolutionLanguage) TableName() string { return AxisLanguage.Table() }

type SolutionRegion struct {
	SolutionID int `gorm:"primaryKey;autoIncrement:false;column:solution_id"`
	RegionID   int `gorm:"primaryKey;autoIncrement:false;index;column:region_id"`
}

func (SolutionRegion) TableName() string { return AxisRegion.Table() }

type SolutionSector struct {
	SolutionID int `gorm:"primaryKey;autoIncrement:false;column:solution_id"`
	SectorID   int `gorm:"primaryKey;autoIncrement:false;index;column:sector_id"`
}

func (SolutionSector) TableName() string { return AxisSector.Table() }

type SolutionSubUseCase struct {
	SolutionID   int `gorm:"primaryKey;autoIncrement:false;column:solution_id"`
	SubUseCaseID int `gorm:"primaryKey;autoIncrement:false;index;column:sub_use_case_id"`
}

func (SolutionSubUseCase) TableName() string { return AxisSubUseCase.Table() }

type SolutionTag struct {
	SolutionID int `gorm:"primaryKey;autoIncrement:false;column:solution_id"`
	TagID      int `gorm:"primaryKey;autoIncrement:false;index;column:tag_id"`
}

func (SolutionTag) TableName() string { return AxisTag.Table() }

type SolutionTechnology struct {
	SolutionID   int `gorm:"primaryKey;autoIncrement:false;column:solution_id"`
	TechnologyID int `gorm:"primaryKey;autoIncrement:false;index;column:technology_id"`
}

func (SolutionTechnology) TableName() string { return AxisTechnology.Table() }

// Set is the full target membership of one solution across every axis.
// Countries are ISO codes; every other axis holds integer dimension ids.
type Set struct {
	BusinessModels []int
	Channels       []int
	Countries      []string
	Languages      []int
	Regions        []int
	Sectors        []int
	SubUseCases    []int
	Tags           []int
	Technologies   []int
}

// IntIDs returns the integer ids for axis, nil for the country axis.
func (s Set) IntIDs(axis Axis) []int {
	switch axis {
	case AxisBusinessModel:
		return s.BusinessModels
	case AxisChannel:
		return s.Channels
	case AxisLanguage:
		return s.Languages
	case AxisRegion:
		return s.Regions
	case AxisSector:
		return s.Sectors
	case AxisSubUseCase:
		return s.SubUseCases
	case AxisTag:
		return s.Tags
	case AxisTechnology:
		return s.Technologies
	default:
		return nil
	}
}
