package querylog

import (
	"gorm.io/gorm"

	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

type QueryLogRepo interface {
	Create(dbc dbctx.Context, rows ...*types.QueryLog) error
	// Recent returns the newest entries first.
	Recent(dbc dbctx.Context, limit int) ([]*types.QueryLog, error)
}

type queryLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQueryLogRepo(db *gorm.DB, baseLog *logger.Logger) QueryLogRepo {
	return &queryLogRepo{db: db, log: baseLog.With("repo", "QueryLogRepo")}
}

func (r *queryLogRepo) Create(dbc dbctx.Context, rows ...*types.QueryLog) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).Create(rows).Error
}

func (r *queryLogRepo) Recent(dbc dbctx.Context, limit int) ([]*types.QueryLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []*types.QueryLog
	err := dbc.DB(r.db).Order("logged_at DESC, id DESC").Limit(limit).Find(&out).Error
	return out, err
}
