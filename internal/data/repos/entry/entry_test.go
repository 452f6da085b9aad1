package entry

import (
	"context"
	"slices"
	"testing"
	"time"

	repotest "github.com/yungbote/daghub-backend/internal/data/repos/testutil"
	"github.com/yungbote/daghub-backend/internal/domain/association"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
)

func TestOwnersRepoAppendOnly(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	ctx := context.Background()
	repo := NewOwnersRepo(tx, repotest.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	org := repotest.SeedOrganisation(t, ctx, tx, "org", "10001", "10002")

	if err := repo.Append(dbc, entry.KindOrganisation, org.ID, entry.Owners{"10002", "10003", "10003", "10004"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err := repo.Load(dbc, entry.KindOrganisation, org.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := entry.Owners{"10001", "10002", "10003", "10004"}
	if !slices.Equal(got, want) {
		t.Fatalf("owners: want=%v got=%v", want, got)
	}
}

func TestOwnersRepoFirstCoOwnedOrganisation(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	ctx := context.Background()
	repo := NewOwnersRepo(tx, repotest.Logger(t))
	orgs := NewOrganisationRepo(tx, repotest.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	first := repotest.SeedOrganisation(t, ctx, tx, "first", "10001", "10005")
	repotest.SeedOrganisation(t, ctx, tx, "second", "10005", "10009")

	got, err := repo.FirstCoOwnedOrganisation(dbc, "10005")
	if err != nil {
		t.Fatalf("FirstCoOwnedOrganisation: %v", err)
	}
	if !slices.Equal(got, entry.Owners{"10001", "10005"}) {
		t.Fatalf("co-owned owners: got=%v", got)
	}

	if err := orgs.SoftDelete(dbc, first.ID, time.Now().UTC()); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	got, err = repo.FirstCoOwnedOrganisation(dbc, "10005")
	if err != nil || !slices.Equal(got, entry.Owners{"10005", "10009"}) {
		t.Fatalf("co-owned after delete: got=%v err=%v", got, err)
	}
	if none, _ := repo.FirstCoOwnedOrganisation(dbc, "424242"); none != nil {
		t.Fatalf("stranger: want nil got=%v", none)
	}
}

func TestSolutionRepoLifecycle(t *testing.T) {
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	ctx := context.Background()
	repo := NewSolutionRepo(tx, repotest.Logger(t))
	orgs := NewOrganisationRepo(tx, repotest.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	org := repotest.SeedOrganisation(t, ctx, tx, "org", "10001")
	a := repotest.SeedSolution(t, ctx, tx, org, association.Set{}, func(s *entry.Solution) { s.Name = "b-side" })
	b := repotest.SeedSolution(t, ctx, tx, org, association.Set{}, func(s *entry.Solution) { s.Name = "a-side" })

	ids, err := repo.ActiveIDsByOrganisation(dbc, org.ID)
	if err != nil || !slices.Equal(ids, []int{a.ID, b.ID}) {
		t.Fatalf("ActiveIDsByOrganisation: got=%v err=%v", ids, err)
	}
	names, err := orgs.SolutionNames(dbc, org.ID)
	if err != nil || len(names) != 2 || names[0].Name != "a-side" {
		t.Fatalf("SolutionNames: got=%+v err=%v", names, err)
	}

	hidden := &entry.Solution{
		Name:                "hidden",
		Description:         "d",
		Launch:              2021,
		OrganisationID:      org.ID,
		PrimarySubUseCaseID: repotest.SubUseCaseAdvice,
	}
	if err := repo.Create(dbc, hidden); err != nil {
		t.Fatalf("Create: %v", err)
	}
	loaded, err := repo.LockActive(dbc, hidden.ID)
	if err != nil || loaded == nil {
		t.Fatalf("LockActive: %v %v", loaded, err)
	}
	if loaded.Visible {
		t.Fatalf("visible=false must survive insert")
	}

	if err := repo.SoftDelete(dbc, a.ID, time.Now().UTC()); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if got, _ := repo.GetActive(dbc, a.ID); got != nil {
		t.Fatalf("deleted solution must be invisible")
	}
}
