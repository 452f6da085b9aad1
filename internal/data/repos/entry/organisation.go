package entry

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

type OrganisationRepo interface {
	Create(dbc dbctx.Context, o *types.Organisation) error
	// GetActive returns nil when the organisation is missing or soft-deleted.
	GetActive(dbc dbctx.Context, id int) (*types.Organisation, error)
	// LockActive is GetActive with a row lock held until the transaction ends.
	LockActive(dbc dbctx.Context, id int) (*types.Organisation, error)
	// SolutionNames lists the active solutions of an organisation by name.
	SolutionNames(dbc dbctx.Context, id int) ([]entry.IDName, error)
	SoftDelete(dbc dbctx.Context, id int, at time.Time) error
}

type organisationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrganisationRepo(db *gorm.DB, baseLog *logger.Logger) OrganisationRepo {
	return &organisationRepo{db: db, log: baseLog.With("repo", "OrganisationRepo")}
}

func (r *organisationRepo) Create(dbc dbctx.Context, o *types.Organisation) error {
	if o == nil {
		return nil
	}
	return dbc.DB(r.db).Create(o).Error
}

func (r *organisationRepo) GetActive(dbc dbctx.Context, id int) (*types.Organisation, error) {
	return r.get(dbc.DB(r.db), id)
}

func (r *organisationRepo) LockActive(dbc dbctx.Context, id int) (*types.Organisation, error) {
	return r.get(dbc.DB(r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *organisationRepo) get(db *gorm.DB, id int) (*types.Organisation, error) {
	if id <= 0 {
		return nil, nil
	}
	var rows []*types.Organisation
	if err := db.Where("id = ? AND date_removed IS NULL", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *organisationRepo) SolutionNames(dbc dbctx.Context, id int) ([]entry.IDName, error) {
	out := []entry.IDName{}
	err := dbc.DB(r.db).Model(&types.Solution{}).
		Select("id, name").
		Where("organisation_id = ? AND date_removed IS NULL", id).
		Order("name ASC, id ASC").
		Scan(&out).Error
	return out, err
}

func (r *organisationRepo) SoftDelete(dbc dbctx.Context, id int, at time.Time) error {
	return dbc.DB(r.db).Model(&types.Organisation{}).
		Where("id = ? AND date_removed IS NULL", id).
		Updates(map[string]any{
			"date_removed":  at,
			"date_modified": at,
			"version":       gorm.Expr("version + 1"),
		}).Error
}
