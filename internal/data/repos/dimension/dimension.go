package dimension

import (
	"fmt"
	"slices"
	"strconv"

	"gorm.io/gorm"

	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/domain/dimension"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

type DimensionRepo interface {
	// ListItems returns id/description pairs of kind ordered by id.
	ListItems(dbc dbctx.Context, kind dimension.Kind) ([]dimension.Item, error)
	ListCountries(dbc dbctx.Context) ([]*types.Country, error)
	GetCountry(dbc dbctx.Context, id string) (*types.Country, error)
	ListUseCases(dbc dbctx.Context) ([]*types.UseCase, error)
	GetUseCase(dbc dbctx.Context, id int) (*types.UseCase, error)

	// MissingIDs returns the members of ids with no row in kind's table.
	MissingIDs(dbc dbctx.Context, kind dimension.Kind, ids []int) ([]int, error)
	MissingCountries(dbc dbctx.Context, ids []string) ([]string, error)
	// RegionInCountry reports whether region id belongs to country.
	RegionInCountry(dbc dbctx.Context, regionID int, countryID string) (bool, error)
}

type dimensionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDimensionRepo(db *gorm.DB, baseLog *logger.Logger) DimensionRepo {
	return &dimensionRepo{db: db, log: baseLog.With("repo", "DimensionRepo")}
}

func (r *dimensionRepo) ListItems(dbc dbctx.Context, kind dimension.Kind) ([]dimension.Item, error) {
	table := kind.Table()
	if table == "" {
		return nil, fmt.Errorf("unknown dimension kind %q", kind)
	}
	type row struct {
		ID          string
		Description string
	}
	var rows []row
	if err := dbc.DB(r.db).Table(table).
		Select("id, description").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dimension.Item, 0, len(rows))
	for _, rw := range rows {
		out = append(out, dimension.Item{ID: itemID(kind, rw.ID), Description: rw.Description})
	}
	return out, nil
}

// itemID keeps integer ids numeric in JSON while countries stay strings.
func itemID(kind dimension.Kind, raw string) any {
	if kind == dimension.KindCountry {
		return raw
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return raw
	}
	return n
}

func (r *dimensionRepo) ListCountries(dbc dbctx.Context) ([]*types.Country, error) {
	var out []*types.Country
	err := dbc.DB(r.db).
		Preload("Regions", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *dimensionRepo) GetCountry(dbc dbctx.Context, id string) (*types.Country, error) {
	if id == "" {
		return nil, nil
	}
	var c types.Country
	err := dbc.DB(r.db).
		Preload("Regions", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		Limit(1).
		Find(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == "" {
		return nil, nil
	}
	return &c, nil
}

func (r *dimensionRepo) ListUseCases(dbc dbctx.Context) ([]*types.UseCase, error) {
	var out []*types.UseCase
	err := dbc.DB(r.db).
		Preload("SubUseCases", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *dimensionRepo) GetUseCase(dbc dbctx.Context, id int) (*types.UseCase, error) {
	if id <= 0 {
		return nil, nil
	}
	var uc types.UseCase
	err := dbc.DB(r.db).
		Preload("SubUseCases", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		Limit(1).
		Find(&uc).Error
	if err != nil {
		return nil, err
	}
	if uc.ID == 0 {
		return nil, nil
	}
	return &uc, nil
}

func (r *dimensionRepo) MissingIDs(dbc dbctx.Context, kind dimension.Kind, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	table := kind.Table()
	if table == "" || kind == dimension.KindCountry {
		return nil, fmt.Errorf("MissingIDs: unsupported kind %q", kind)
	}
	var found []int
	if err := dbc.DB(r.db).Table(table).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	return missing(ids, found), nil
}

func (r *dimensionRepo) MissingCountries(dbc dbctx.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []string
	if err := dbc.DB(r.db).Model(&types.Country{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	return missing(ids, found), nil
}

func (r *dimensionRepo) RegionInCountry(dbc dbctx.Context, regionID int, countryID string) (bool, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Region{}).
		Where("id = ? AND country_id = ?", regionID, countryID).
		Count(&n).Error
	return n > 0, err
}

func missing[T int | string](want, found []T) []T {
	var out []T
	for _, id := range want {
		if !slices.Contains(found, id) && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
