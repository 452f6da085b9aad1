package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/daghub-backend/internal/domain/ownership"
	"github.com/yungbote/daghub-backend/internal/platform/ctxutil"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
	"github.com/yungbote/daghub-backend/internal/services"
)

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	tokens := services.NewTokenService(log, "secret", "")
	am := NewAuthMiddleware(log, tokens)

	r := gin.New()
	r.GET("/me", am.RequireAuth(), func(c *gin.Context) {
		id, ok := ctxutil.GetIdentity(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.OwnerID())
	})

	good, err := tokens.Issue(ownership.Identity{UserID: 10001, Roles: []ownership.Role{ownership.RoleOwner}}, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + good, http.StatusUnauthorized},
		{"valid", "Bearer " + good, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Fatalf("%s: want=%d got=%d", tc.name, tc.status, rec.Code)
		}
		if tc.status == http.StatusOK && rec.Body.String() != "10001" {
			t.Fatalf("%s: body want=10001 got=%q", tc.name, rec.Body.String())
		}
	}
}
