package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	repotest "github.com/yungbote/daghub-backend/internal/data/repos/testutil"
	"github.com/yungbote/daghub-backend/internal/domain/ownership"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(repotest.Logger(t), "secret", "daghub")
	in := ownership.Identity{UserID: 10042, Email: "a@example.org", Roles: []ownership.Role{ownership.RoleOwner, ownership.RoleAdmin}}

	tok, err := svc.Issue(in, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := svc.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.UserID != in.UserID || got.Email != in.Email {
		t.Fatalf("identity: want=%+v got=%+v", in, got)
	}
	if !got.IsAdmin() || !got.HasRole(ownership.RoleOwner) {
		t.Fatalf("roles: want=[OWNER ADMIN] got=%v", got.Roles)
	}
}

func TestTokenRejects(t *testing.T) {
	log := repotest.Logger(t)
	svc := NewTokenService(log, "secret", "daghub")
	id := ownership.Identity{UserID: 7, Roles: []ownership.Role{ownership.RoleOwner}}

	other, err := NewTokenService(log, "other", "daghub").Issue(id, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	wrongIssuer, err := NewTokenService(log, "secret", "elsewhere").Issue(id, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		Role: "OWNER",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			Issuer:    "daghub",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredTok, err := expired.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", Issuer: "daghub"},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not.a.token",
		"wrong key":    other,
		"wrong issuer": wrongIssuer,
		"expired":      expiredTok,
		"non-numeric":  badSubject,
	}
	for name, tok := range cases {
		if _, err := svc.Parse(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: want ErrInvalidToken got=%v", name, err)
		}
	}
}

func TestParseRolesIgnoresUnknown(t *testing.T) {
	got := parseRoles(" admin, guest ,OWNER")
	if len(got) != 2 || got[0] != ownership.RoleAdmin || got[1] != ownership.RoleOwner {
		t.Fatalf("roles: want=[ADMIN OWNER] got=%v", got)
	}
}
