package dimension

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/domain/dimension"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

// FreeTextRepo looks up, creates and sweeps the dimensions that data entry
// may create from free text: languages and regions.
type FreeTextRepo interface {
	// FindLanguage matches description exactly (case-sensitive). It returns 0
	// when absent.
	FindLanguage(dbc dbctx.Context, description string) (int, error)
	// CreateLanguage inserts a user-origin language, or returns the id of a
	// row a concurrent writer inserted first.
	CreateLanguage(dbc dbctx.Context, description string) (int, error)
	FindRegion(dbc dbctx.Context, countryID, description string) (int, error)
	CreateRegion(dbc dbctx.Context, countryID, description string) (int, error)

	// SweepLanguages deletes the user-origin languages among ids that nothing
	// references and returns their ids.
	SweepLanguages(dbc dbctx.Context, ids []int) ([]int, error)
	// SweepRegions is SweepLanguages for regions; a region that is any
	// organisation's headquarters region is kept.
	SweepRegions(dbc dbctx.Context, ids []int) ([]int, error)
}

type freeTextRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFreeTextRepo(db *gorm.DB, baseLog *logger.Logger) FreeTextRepo {
	return &freeTextRepo{db: db, log: baseLog.With("repo", "FreeTextRepo")}
}

func (r *freeTextRepo) FindLanguage(dbc dbctx.Context, description string) (int, error) {
	var ids []int
	err := dbc.DB(r.db).Model(&types.Language{}).
		Where("description = ?", strings.TrimSpace(description)).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	return ids[0], nil
}

func (r *freeTextRepo) CreateLanguage(dbc dbctx.Context, description string) (int, error) {
	row := &types.Language{Description: strings.TrimSpace(description), Origin: dimension.OriginUser}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "description"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 || row.ID == 0 {
		return r.FindLanguage(dbc, description)
	}
	r.log.Debug("Created language", "language_id", row.ID)
	return row.ID, nil
}

func (r *freeTextRepo) FindRegion(dbc dbctx.Context, countryID, description string) (int, error) {
	var ids []int
	err := dbc.DB(r.db).Model(&types.Region{}).
		Where("description = ? AND country_id = ?", strings.TrimSpace(description), countryID).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	return ids[0], nil
}

func (r *freeTextRepo) CreateRegion(dbc dbctx.Context, countryID, description string) (int, error) {
	row := &types.Region{
		Description: strings.TrimSpace(description),
		CountryID:   countryID,
		Origin:      dimension.OriginUser,
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "description"}, {Name: "country_id"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 || row.ID == 0 {
		return r.FindRegion(dbc, countryID, description)
	}
	r.log.Debug("Created region", "region_id", row.ID, "country_id", countryID)
	return row.ID, nil
}

func (r *freeTextRepo) SweepLanguages(dbc dbctx.Context, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	orphaned := func(db *gorm.DB) *gorm.DB {
		return db.
			Where("languages.id IN ? AND languages.origin = ?", ids, dimension.OriginUser).
			Where("NOT EXISTS (SELECT 1 FROM solution_languages x WHERE x.language_id = languages.id)").
			Where("NOT EXISTS (SELECT 1 FROM solution_translations x WHERE x.language_id = languages.id)").
			Where("NOT EXISTS (SELECT 1 FROM organisation_translations x WHERE x.language_id = languages.id)")
	}
	return r.sweep(dbc, &types.Language{}, orphaned)
}

func (r *freeTextRepo) SweepRegions(dbc dbctx.Context, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	orphaned := func(db *gorm.DB) *gorm.DB {
		return db.
			Where("regions.id IN ? AND regions.origin = ?", ids, dimension.OriginUser).
			Where("NOT EXISTS (SELECT 1 FROM solution_regions x WHERE x.region_id = regions.id)").
			Where("NOT EXISTS (SELECT 1 FROM organisations o WHERE o.hq_region_id = regions.id)")
	}
	return r.sweep(dbc, &types.Region{}, orphaned)
}

func (r *freeTextRepo) sweep(dbc dbctx.Context, model any, orphaned func(*gorm.DB) *gorm.DB) ([]int, error) {
	db := dbc.DB(r.db)
	var victims []int
	if err := orphaned(db.Model(model)).Pluck("id", &victims).Error; err != nil {
		return nil, err
	}
	if len(victims) == 0 {
		return nil, nil
	}
	if err := orphaned(db).Delete(model).Error; err != nil {
		return nil, err
	}
	return victims, nil
}
