package domain

import (
	"github.com/yungbote/daghub-backend/internal/domain/association"
	"github.com/yungbote/daghub-backend/internal/domain/dimension"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/domain/querylog"
)

// Dimensions
type BusinessFundingStage = dimension.BusinessFundingStage
type BusinessGrowthStage = dimension.BusinessGrowthStage
type BusinessModel = dimension.BusinessModel
type Channel = dimension.Channel
type Country = dimension.Country
type Language = dimension.Language
type OrganisationType = dimension.OrganisationType
type Region = dimension.Region
type Sector = dimension.Sector
type SubUseCase = dimension.SubUseCase
type Tag = dimension.Tag
type Technology = dimension.Technology
type UseCase = dimension.UseCase

// Entries
type Organisation = entry.Organisation
type OrganisationTranslation = entry.OrganisationTranslation
type Solution = entry.Solution
type SolutionTranslation = entry.SolutionTranslation
type EntryOwner = entry.EntryOwner

// Associations
type SolutionBusinessModel = association.SolutionBusinessModel
type SolutionChannel = association.SolutionChannel
type SolutionCountry = association.SolutionCountry
type SolutionLanguage = association.SolutionLanguage
type SolutionRegion = association.SolutionRegion
type SolutionSector = association.SolutionSector
type SolutionSubUseCase = association.SolutionSubUseCase
type SolutionTag = association.SolutionTag
type SolutionTechnology = association.SolutionTechnology

// Analytics
type QueryLog = querylog.QueryLog

// Models lists every persisted model in migration order.
func Models() []any {
	return []any{
		&BusinessFundingStage{},
		&BusinessGrowthStage{},
		&BusinessModel{},
		&Channel{},
		&Country{},
		&Language{},
		&OrganisationType{},
		&Region{},
		&Sector{},
		&UseCase{},
		&SubUseCase{},
		&Tag{},
		&Technology{},

		&Organisation{},
		&OrganisationTranslation{},
		&Solution{},
		&SolutionTranslation{},
		&EntryOwner{},

		&SolutionBusinessModel{},
		&SolutionChannel{},
		&SolutionCountry{},
		&SolutionLanguage{},
		&SolutionRegion{},
		&SolutionSector{},
		&SolutionSubUseCase{},
		&SolutionTag{},
		&SolutionTechnology{},

		&QueryLog{},
	}
}
