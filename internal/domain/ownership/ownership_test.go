package ownership

import (
	"testing"

	"github.com/yungbote/daghub-backend/internal/domain/entry"
)

func TestAuthorize(t *testing.T) {
	owners := entry.Owners{"10001", "12"}
	authz := NewAuthorizer()

	cases := []struct {
		name string
		who  Identity
		want Decision
	}{
		{"admin without ownership", Identity{UserID: 5, Roles: []Role{RoleAdmin}}, Allow},
		{"owner by id", Identity{UserID: 10001, Roles: []Role{RoleOwner}}, Allow},
		{"owner role but not listed", Identity{UserID: 10002, Roles: []Role{RoleOwner}}, Deny},
		{"listed without role", Identity{UserID: 12}, Allow},
		{"anonymous", Identity{}, Deny},
		{"lowercase admin role", Identity{UserID: 99, Roles: []Role{"admin"}}, Allow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := authz.Authorize(tc.who, owners); got != tc.want {
				t.Fatalf("decision: want=%s got=%s", tc.want, got)
			}
		})
	}
}

func TestRegistered(t *testing.T) {
	if (Identity{UserID: 9999}).Registered() {
		t.Fatalf("9999 should not count as registered")
	}
	if !(Identity{UserID: 10000}).Registered() {
		t.Fatalf("10000 should count as registered")
	}
}
