package aggregates

import (
	"context"
	"testing"

	domainagg "github.com/yungbote/daghub-backend/internal/domain/aggregates"
	repotest "github.com/yungbote/daghub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
)

func TestRequireVersionMatch(t *testing.T) {
	if err := RequireVersionMatch(3, 3); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	err := MapError("Catalogue.Solution.Update", RequireVersionMatch(3, 2))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("stale: want=conflict got=%v", err)
	}
	if got, want := domainagg.MessageOf(err), "version 2 is stale, current version is 3"; got != want {
		t.Fatalf("stale message: want=%q got=%q", want, got)
	}
	if err := MapError("Catalogue.Solution.Update", RequireVersionMatch(0, -1)); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("negative: want=validation got=%v", err)
	}
}

func TestRequireCASSuccess(t *testing.T) {
	if err := RequireCASSuccess(true, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireCASSuccess(false, "stale"); err == nil {
		t.Fatalf("expected conflict error")
	}
}

func TestUpdateByVersion(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	ctx := context.Background()
	org := repotest.SeedOrganisation(t, ctx, tx, "before", "10001")
	guard := NewCASGuard(tx)
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	ok, err := guard.UpdateByVersion(dbc, "organisations", org.ID, 0, map[string]any{"name": "after"})
	if err != nil || !ok {
		t.Fatalf("UpdateByVersion current: ok=%v err=%v", ok, err)
	}
	ok, err = guard.UpdateByVersion(dbc, "organisations", org.ID, 0, map[string]any{"name": "lost"})
	if err != nil || ok {
		t.Fatalf("UpdateByVersion stale: want ok=false got ok=%v err=%v", ok, err)
	}

	var got types.Organisation
	if err := tx.First(&got, org.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Name != "after" || got.Version != 1 {
		t.Fatalf("row: want after/1 got=%s/%d", got.Name, got.Version)
	}
}
