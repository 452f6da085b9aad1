package entry

import (
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the two owned entry tables in shared rows (owners).
type Kind string

const (
	KindOrganisation Kind = "organisation"
	KindSolution     Kind = "solution"
)

// Entry is the owned, versioned, soft-deletable base of Organisation and Solution.
type Entry struct {
	ID                int        `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Owners            Owners     `gorm:"-" json:"owners"`
	DateCreated       time.Time  `gorm:"not null;autoCreateTime;column:date_created" json:"dateCreated"`
	DateModified      time.Time  `gorm:"not null;autoUpdateTime;column:date_modified" json:"dateModified"`
	DateModifiedOwner *time.Time `gorm:"column:date_modified_owner" json:"dateModifiedOwner,omitempty"`
	DateRemoved       *time.Time `gorm:"index;column:date_removed" json:"-"`
	Version           int        `gorm:"not null;default:0;column:version" json:"version"`
}

// Active reports whether the entry has not been soft-deleted.
func (e Entry) Active() bool { return e.DateRemoved == nil }

// Owners is an ordered set of user ids. Members are only ever appended.
type Owners []string

// Has compares by string form, matching how ids are stored.
func (o Owners) Has(userID string) bool {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false
	}
	for _, id := range o {
		if id == userID {
			return true
		}
	}
	return false
}

// Add appends userID when absent and returns the resulting set.
func (o Owners) Add(userID string) Owners {
	userID = strings.TrimSpace(userID)
	if userID == "" || o.Has(userID) {
		return o
	}
	return append(o, userID)
}

// OwnerID renders a numeric user id the way owners store it.
func OwnerID(userID int64) string { return strconv.FormatInt(userID, 10) }

// EntryOwner is one member of an entry's owners set.
type EntryOwner struct {
	EntryKind Kind   `gorm:"primaryKey;type:varchar(16);column:entry_kind"`
	EntryID   int    `gorm:"primaryKey;column:entry_id"`
	UserID    string `gorm:"primaryKey;type:varchar(64);index;column:user_id"`
	Position  int    `gorm:"not null;default:0;column:position"`
}

func (EntryOwner) TableName() string { return "entry_owners" }

// Translation is a language→text pair attached to an entry.
type Translation struct {
	LanguageID  int    `json:"language"`
	Translation string `json:"translation"`
}

// NamedTranslation is the read-side form that carries the language description.
type NamedTranslation struct {
	Language    string `json:"language"`
	Translation string `json:"translation"`
}
