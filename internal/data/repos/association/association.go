package association

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/domain/association"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

// AssociationRepo reads and rewrites the join rows of one solution.
type AssociationRepo interface {
	Load(dbc dbctx.Context, solutionID int) (association.Set, error)
	IntIDs(dbc dbctx.Context, axis association.Axis, solutionID int) ([]int, error)
	// DeleteAll removes the solution's rows from every join table.
	DeleteAll(dbc dbctx.Context, solutionID int) error
	Insert(dbc dbctx.Context, solutionID int, set association.Set) error
}

type associationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssociationRepo(db *gorm.DB, baseLog *logger.Logger) AssociationRepo {
	return &associationRepo{db: db, log: baseLog.With("repo", "AssociationRepo")}
}

func (r *associationRepo) Load(dbc dbctx.Context, solutionID int) (association.Set, error) {
	var set association.Set
	if err := dbc.DB(r.db).Model(&types.SolutionCountry{}).
		Where("solution_id = ?", solutionID).
		Order("country_id ASC").
		Pluck("country_id", &set.Countries).Error; err != nil {
		return set, err
	}
	for _, axis := range association.Axes {
		if axis == association.AxisCountry {
			continue
		}
		ids, err := r.IntIDs(dbc, axis, solutionID)
		if err != nil {
			return set, err
		}
		switch axis {
		case association.AxisBusinessModel:
			set.BusinessModels = ids
		case association.AxisChannel:
			set.Channels = ids
		case association.AxisLanguage:
			set.Languages = ids
		case association.AxisRegion:
			set.Regions = ids
		case association.AxisSector:
			set.Sectors = ids
		case association.AxisSubUseCase:
			set.SubUseCases = ids
		case association.AxisTag:
			set.Tags = ids
		case association.AxisTechnology:
			set.Technologies = ids
		}
	}
	return set, nil
}

func (r *associationRepo) IntIDs(dbc dbctx.Context, axis association.Axis, solutionID int) ([]int, error) {
	if axis == association.AxisCountry {
		return nil, fmt.Errorf("IntIDs: country ids are strings")
	}
	ids := []int{}
	err := dbc.DB(r.db).Table(axis.Table()).
		Where("solution_id = ?", solutionID).
		Order(axis.Column()+" ASC").
		Pluck(axis.Column(), &ids).Error
	return ids, err
}

func (r *associationRepo) DeleteAll(dbc dbctx.Context, solutionID int) error {
	db := dbc.DB(r.db)
	for _, axis := range association.Axes {
		if err := db.Exec("DELETE FROM "+axis.Table()+" WHERE solution_id = ?", solutionID).Error; err != nil {
			return fmt.Errorf("clear %s: %w", axis.Table(), err)
		}
	}
	return nil
}

func (r *associationRepo) Insert(dbc dbctx.Context, solutionID int, set association.Set) error {
	db := dbc.DB(r.db)
	if len(set.Countries) > 0 {
		rows := make([]types.SolutionCountry, 0, len(set.Countries))
		for _, c := range unique(set.Countries) {
			rows = append(rows, types.SolutionCountry{SolutionID: solutionID, CountryID: c})
		}
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert %s: %w", association.AxisCountry.Table(), err)
		}
	}
	for _, axis := range association.Axes {
		ids := unique(set.IntIDs(axis))
		if len(ids) == 0 {
			continue
		}
		rows := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, map[string]any{"solution_id": solutionID, axis.Column(): id})
		}
		if err := db.Table(axis.Table()).Create(&rows).Error; err != nil {
			return fmt.Errorf("insert %s: %w", axis.Table(), err)
		}
	}
	return nil
}

func unique[T comparable](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
