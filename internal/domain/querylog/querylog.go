package querylog

import (
	"time"

	"gorm.io/datatypes"
)

// QueryLog records one faceted query for usage analytics.
type QueryLog struct {
	ID                int                         `gorm:"primaryKey;autoIncrement;column:id"`
	LoggedAt          time.Time                   `gorm:"not null;index;column:logged_at"`
	RequestID         string                      `gorm:"type:varchar(64);column:request_id"`
	Technologies      datatypes.JSONSlice[int]    `gorm:"column:technologies"`
	Channels          datatypes.JSONSlice[int]    `gorm:"column:channels"`
	UseCases          datatypes.JSONSlice[int]    `gorm:"column:use_cases"`
	OrganisationTypes datatypes.JSONSlice[int]    `gorm:"column:organisation_types"`
	Stages            datatypes.JSONSlice[int]    `gorm:"column:stages"`
	Tags              datatypes.JSONSlice[int]    `gorm:"column:tags"`
	Countries         datatypes.JSONSlice[string] `gorm:"column:countries"`
	SolutionIDs       datatypes.JSONSlice[int]    `gorm:"column:solution_ids"`
}

func (QueryLog) TableName() string { return "query_logs" }
