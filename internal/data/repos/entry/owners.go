package entry

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

// OwnersRepo persists entry owners sets. Members are only ever appended.
type OwnersRepo interface {
	Load(dbc dbctx.Context, kind entry.Kind, id int) (entry.Owners, error)
	// Append stores the members of owners not yet recorded for the entry,
	// after the existing ones.
	Append(dbc dbctx.Context, kind entry.Kind, id int, owners entry.Owners) error
	// FirstCoOwnedOrganisation returns the owners of the lowest-id active
	// organisation userID co-owns, or nil.
	FirstCoOwnedOrganisation(dbc dbctx.Context, userID string) (entry.Owners, error)
}

type ownersRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOwnersRepo(db *gorm.DB, baseLog *logger.Logger) OwnersRepo {
	return &ownersRepo{db: db, log: baseLog.With("repo", "OwnersRepo")}
}

func (r *ownersRepo) Load(dbc dbctx.Context, kind entry.Kind, id int) (entry.Owners, error) {
	var ids []string
	err := dbc.DB(r.db).Model(&types.EntryOwner{}).
		Where("entry_kind = ? AND entry_id = ?", kind, id).
		Order("position ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return entry.Owners(ids), nil
}

func (r *ownersRepo) Append(dbc dbctx.Context, kind entry.Kind, id int, owners entry.Owners) error {
	if len(owners) == 0 {
		return nil
	}
	current, err := r.Load(dbc, kind, id)
	if err != nil {
		return err
	}
	var rows []*types.EntryOwner
	next := current
	for _, u := range owners {
		pos := len(next)
		if next = next.Add(u); len(next) == pos {
			continue
		}
		rows = append(rows, &types.EntryOwner{
			EntryKind: kind,
			EntryID:   id,
			UserID:    next[pos],
			Position:  pos,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rows).Error
}

func (r *ownersRepo) FirstCoOwnedOrganisation(dbc dbctx.Context, userID string) (entry.Owners, error) {
	if userID == "" {
		return nil, nil
	}
	var orgIDs []int
	err := dbc.DB(r.db).Table("entry_owners eo").
		Joins("JOIN organisations o ON o.id = eo.entry_id").
		Where("eo.entry_kind = ? AND eo.user_id = ? AND o.date_removed IS NULL", entry.KindOrganisation, userID).
		Order("o.id ASC").
		Limit(1).
		Pluck("o.id", &orgIDs).Error
	if err != nil || len(orgIDs) == 0 {
		return nil, err
	}
	return r.Load(dbc, entry.KindOrganisation, orgIDs[0])
}
