package ownership

import (
	"strings"

	"github.com/yungbote/daghub-backend/internal/domain/entry"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleOwner Role = "OWNER"
)

// RegisteredUserFloor separates registered users from system and seed
// identities; only registered users stamp date_modified_owner.
const RegisteredUserFloor = 10000

// Identity is the authenticated caller of a write.
type Identity struct {
	UserID int64
	Email  string
	Roles  []Role
}

func (i Identity) HasRole(r Role) bool {
	for _, have := range i.Roles {
		if strings.EqualFold(string(have), string(r)) {
			return true
		}
	}
	return false
}

func (i Identity) IsAdmin() bool { return i.HasRole(RoleAdmin) }

// OwnerID is the caller's id in the form stored in owners sets.
func (i Identity) OwnerID() string { return entry.OwnerID(i.UserID) }

// Registered reports whether writes by this caller stamp date_modified_owner.
func (i Identity) Registered() bool { return i.UserID >= RegisteredUserFloor }

// Valid reports whether the identity carries a usable user id.
func (i Identity) Valid() bool { return i.UserID > 0 }

type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) Allowed() bool { return d == Allow }

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Authorizer decides whether a caller may mutate an owned entry.
type Authorizer interface {
	Authorize(who Identity, owners entry.Owners) Decision
}

type ownerAuthorizer struct{}

// NewAuthorizer returns the owners-list authorizer with the admin short-circuit.
func NewAuthorizer() Authorizer { return ownerAuthorizer{} }

func (ownerAuthorizer) Authorize(who Identity, owners entry.Owners) Decision {
	if who.IsAdmin() {
		return Allow
	}
	if !who.Valid() {
		return Deny
	}
	if owners.Has(who.OwnerID()) {
		return Allow
	}
	return Deny
}
