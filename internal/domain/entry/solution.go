package entry

type Solution struct {
	Entry
	Name                string   `gorm:"not null;column:name" json:"name"`
	Description         string   `gorm:"type:text;not null;column:description" json:"description"`
	URL                 string   `gorm:"column:url" json:"url"`
	Launch              int      `gorm:"not null;column:launch" json:"launch"`
	Platform            *int     `gorm:"column:platform" json:"platform,omitempty"`
	Bundling            *int     `gorm:"column:bundling" json:"bundling,omitempty"`
	Visible             bool     `gorm:"not null;default:true;column:visible" json:"visible"`
	OrganisationID      int      `gorm:"not null;index;column:organisation_id" json:"organisation"`
	PrimarySubUseCaseID int      `gorm:"not null;column:primary_sub_use_case_id" json:"primarySubUseCase"`
	RegisteredUsers     *int     `gorm:"column:registered_users" json:"registeredUsers,omitempty"`
	ActiveUsers         *int     `gorm:"column:active_users" json:"activeUsers,omitempty"`
	SHFUsers            *int     `gorm:"column:shf_users" json:"shfUsers,omitempty"`
	WomenUsers          *int     `gorm:"column:women_users" json:"womenUsers,omitempty"`
	YouthUsers          *int     `gorm:"column:youth_users" json:"youthUsers,omitempty"`
	Revenue             *int     `gorm:"column:revenue" json:"revenue,omitempty"`
	YieldLowerBound     *float64 `gorm:"column:yield_lower_bound" json:"yieldLowerBound,omitempty"`
	YieldUpperBound     *float64 `gorm:"column:yield_upper_bound" json:"yieldUpperBound,omitempty"`
	IncomeLowerBound    *float64 `gorm:"column:income_lower_bound" json:"incomeLowerBound,omitempty"`
	IncomeUpperBound    *float64 `gorm:"column:income_upper_bound" json:"incomeUpperBound,omitempty"`
}

func (Solution) TableName() string { return "solutions" }

type SolutionTranslation struct {
	SolutionID  int    `gorm:"primaryKey;column:solution_id"`
	LanguageID  int    `gorm:"primaryKey;column:language_id"`
	Translation string `gorm:"type:text;not null;column:translation"`
}

func (SolutionTranslation) TableName() string { return "solution_translations" }

// OtherRegions names free-text regions for one country.
type OtherRegions struct {
	Country string   `json:"country"`
	Regions []string `json:"regions"`
}

// SolutionDraft is the full desired state submitted on create and update.
// Every association list replaces what is stored.
type SolutionDraft struct {
	ID                *int           `json:"id,omitempty"`
	Version           int            `json:"version"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	URL               string         `json:"url"`
	Organisation      *int           `json:"organisation"`
	Launch            *int           `json:"launch"`
	Platform          *int           `json:"platform,omitempty"`
	Bundling          *int           `json:"bundling,omitempty"`
	Visible           *bool          `json:"visible,omitempty"`
	PrimarySubUseCase *int           `json:"primarySubUseCase"`
	RegisteredUsers   *int           `json:"registeredUsers,omitempty"`
	ActiveUsers       *int           `json:"activeUsers,omitempty"`
	SHFUsers          *int           `json:"shfUsers,omitempty"`
	WomenUsers        *int           `json:"womenUsers,omitempty"`
	YouthUsers        *int           `json:"youthUsers,omitempty"`
	Revenue           *int           `json:"revenue,omitempty"`
	YieldLowerBound   *float64       `json:"yieldLowerBound,omitempty"`
	YieldUpperBound   *float64       `json:"yieldUpperBound,omitempty"`
	IncomeLowerBound  *float64       `json:"incomeLowerBound,omitempty"`
	IncomeUpperBound  *float64       `json:"incomeUpperBound,omitempty"`
	BusinessModels    []int          `json:"businessModels"`
	Channels          []int          `json:"channels"`
	Countries         []string       `json:"countries"`
	Languages         []int          `json:"languages"`
	Regions           []int          `json:"regions"`
	Sectors           []int          `json:"sectors"`
	SubUseCases       []int          `json:"subUseCases"`
	Tags              []int          `json:"tags"`
	Technologies      []int          `json:"technologies"`
	Translations      []Translation  `json:"translations"`
	OtherLanguages    []string       `json:"otherLanguages"`
	OtherRegions      []OtherRegions `json:"otherRegions"`
}

// Apply copies the draft's scalar fields onto s.
func (d SolutionDraft) Apply(s *Solution) {
	s.Name = d.Name
	s.Description = d.Description
	s.URL = NormalizeURL(d.URL)
	s.OrganisationID = deref(d.Organisation)
	s.Launch = deref(d.Launch)
	s.Platform = d.Platform
	s.Bundling = d.Bundling
	s.Visible = d.Visible == nil || *d.Visible
	s.PrimarySubUseCaseID = deref(d.PrimarySubUseCase)
	s.RegisteredUsers = d.RegisteredUsers
	s.ActiveUsers = d.ActiveUsers
	s.SHFUsers = d.SHFUsers
	s.WomenUsers = d.WomenUsers
	s.YouthUsers = d.YouthUsers
	s.Revenue = d.Revenue
	s.YieldLowerBound = d.YieldLowerBound
	s.YieldUpperBound = d.YieldUpperBound
	s.IncomeLowerBound = d.IncomeLowerBound
	s.IncomeUpperBound = d.IncomeUpperBound
}

// Columns returns the mutable columns of the draft as an update map.
func (d SolutionDraft) Columns() map[string]any {
	var s Solution
	d.Apply(&s)
	return map[string]any{
		"name":                    s.Name,
		"description":             s.Description,
		"url":                     s.URL,
		"organisation_id":         s.OrganisationID,
		"launch":                  s.Launch,
		"platform":                s.Platform,
		"bundling":                s.Bundling,
		"visible":                 s.Visible,
		"primary_sub_use_case_id": s.PrimarySubUseCaseID,
		"registered_users":        s.RegisteredUsers,
		"active_users":            s.ActiveUsers,
		"shf_users":               s.SHFUsers,
		"women_users":             s.WomenUsers,
		"youth_users":             s.YouthUsers,
		"revenue":                 s.Revenue,
		"yield_lower_bound":       s.YieldLowerBound,
		"yield_upper_bound":       s.YieldUpperBound,
		"income_lower_bound":      s.IncomeLowerBound,
		"income_upper_bound":      s.IncomeUpperBound,
	}
}

// SolutionDetail is the lookup-by-id view. SubUseCases excludes the primary.
type SolutionDetail struct {
	Solution
	BusinessModels []int         `json:"businessModels"`
	Channels       []int         `json:"channels"`
	Countries      []string      `json:"countries"`
	Languages      []int         `json:"languages"`
	Regions        []int         `json:"regions"`
	Sectors        []int         `json:"sectors"`
	SubUseCases    []int         `json:"subUseCases"`
	Tags           []int         `json:"tags"`
	Technologies   []int         `json:"technologies"`
	Translations   []Translation `json:"translations"`
}
