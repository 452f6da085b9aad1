package entry

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

type SolutionRepo interface {
	Create(dbc dbctx.Context, s *types.Solution) error
	GetActive(dbc dbctx.Context, id int) (*types.Solution, error)
	LockActive(dbc dbctx.Context, id int) (*types.Solution, error)
	// ActiveIDsByOrganisation returns the ids of the organisation's active
	// solutions in ascending order.
	ActiveIDsByOrganisation(dbc dbctx.Context, organisationID int) ([]int, error)
	SoftDelete(dbc dbctx.Context, id int, at time.Time) error
}

type solutionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSolutionRepo(db *gorm.DB, baseLog *logger.Logger) SolutionRepo {
	return &solutionRepo{db: db, log: baseLog.With("repo", "SolutionRepo")}
}

func (r *solutionRepo) Create(dbc dbctx.Context, s *types.Solution) error {
	if s == nil {
		return nil
	}
	visible := s.Visible
	if err := dbc.DB(r.db).Create(s).Error; err != nil {
		return err
	}
	// a false zero value is skipped on insert in favour of the column default
	if !visible {
		s.Visible = false
		return dbc.DB(r.db).Model(&types.Solution{}).Where("id = ?", s.ID).Update("visible", false).Error
	}
	return nil
}

func (r *solutionRepo) GetActive(dbc dbctx.Context, id int) (*types.Solution, error) {
	return r.get(dbc.DB(r.db), id)
}

func (r *solutionRepo) LockActive(dbc dbctx.Context, id int) (*types.Solution, error) {
	return r.get(dbc.DB(r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *solutionRepo) get(db *gorm.DB, id int) (*types.Solution, error) {
	if id <= 0 {
		return nil, nil
	}
	var rows []*types.Solution
	if err := db.Where("id = ? AND date_removed IS NULL", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *solutionRepo) ActiveIDsByOrganisation(dbc dbctx.Context, organisationID int) ([]int, error) {
	var ids []int
	err := dbc.DB(r.db).Model(&types.Solution{}).
		Where("organisation_id = ? AND date_removed IS NULL", organisationID).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *solutionRepo) SoftDelete(dbc dbctx.Context, id int, at time.Time) error {
	return dbc.DB(r.db).Model(&types.Solution{}).
		Where("id = ? AND date_removed IS NULL", id).
		Updates(map[string]any{
			"date_removed":  at,
			"date_modified": at,
			"version":       gorm.Expr("version + 1"),
		}).Error
}
