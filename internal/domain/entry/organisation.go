package entry

type Organisation struct {
	Entry
	Name                   string `gorm:"not null;column:name" json:"name"`
	Description            string `gorm:"column:description" json:"description"`
	URL                    string `gorm:"column:url" json:"url"`
	Founded                *int   `gorm:"column:founded" json:"founded,omitempty"`
	OrganisationTypeID     int    `gorm:"not null;index;column:organisation_type_id" json:"organisationType"`
	HQCountryID            string `gorm:"type:varchar(3);not null;column:hq_country_id" json:"hqCountry"`
	HQRegionID             int    `gorm:"not null;index;column:hq_region_id" json:"hqRegion"`
	BusinessFundingStageID int    `gorm:"not null;column:business_funding_stage_id" json:"businessFundingStage"`
	BusinessGrowthStageID  int    `gorm:"not null;index;column:business_growth_stage_id" json:"businessGrowthStage"`
}

func (Organisation) TableName() string { return "organisations" }

type OrganisationTranslation struct {
	OrganisationID int    `gorm:"primaryKey;column:organisation_id"`
	LanguageID     int    `gorm:"primaryKey;column:language_id"`
	Translation    string `gorm:"type:text;not null;column:translation"`
}

func (OrganisationTranslation) TableName() string { return "organisation_translations" }

// OrganisationDraft is the full desired state submitted on create and update.
type OrganisationDraft struct {
	ID                   *int          `json:"id,omitempty"`
	Version              int           `json:"version"`
	Name                 string        `json:"name"`
	Description          string        `json:"description"`
	URL                  string        `json:"url"`
	Founded              *int          `json:"founded,omitempty"`
	OrganisationType     *int          `json:"organisationType"`
	HQCountry            string        `json:"hqCountry"`
	HQRegion             *int          `json:"hqRegion"`
	BusinessFundingStage *int          `json:"businessFundingStage"`
	BusinessGrowthStage  *int          `json:"businessGrowthStage"`
	Translations         []Translation `json:"translations"`
}

// Apply copies the draft's scalar fields onto o.
func (d OrganisationDraft) Apply(o *Organisation) {
	o.Name = d.Name
	o.Description = d.Description
	o.URL = NormalizeURL(d.URL)
	o.Founded = d.Founded
	o.OrganisationTypeID = deref(d.OrganisationType)
	o.HQCountryID = d.HQCountry
	o.HQRegionID = deref(d.HQRegion)
	o.BusinessFundingStageID = deref(d.BusinessFundingStage)
	o.BusinessGrowthStageID = deref(d.BusinessGrowthStage)
}

// Columns returns the mutable columns of the draft as an update map.
func (d OrganisationDraft) Columns() map[string]any {
	var o Organisation
	d.Apply(&o)
	return map[string]any{
		"name":                      o.Name,
		"description":               o.Description,
		"url":                       o.URL,
		"founded":                   o.Founded,
		"organisation_type_id":      o.OrganisationTypeID,
		"hq_country_id":             o.HQCountryID,
		"hq_region_id":              o.HQRegionID,
		"business_funding_stage_id": o.BusinessFundingStageID,
		"business_growth_stage_id":  o.BusinessGrowthStageID,
	}
}

// OrganisationDetail is the lookup-by-id view with its active solutions.
type OrganisationDetail struct {
	Organisation
	Translations []Translation `json:"translations"`
	Solutions    []IDName      `json:"solutions"`
}

type IDName struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
