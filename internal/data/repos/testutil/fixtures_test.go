package testutil

import (
	"context"
	"testing"

	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/domain/association"
)

func TestSeedSolutionPersistsVisibility(t *testing.T) {
	ctx := context.Background()
	tx := Tx(t, DB(t))
	org := SeedOrganisation(t, ctx, tx, "acme", "10001")

	shown := SeedSolution(t, ctx, tx, org, association.Set{}, nil)
	hidden := SeedSolution(t, ctx, tx, org, association.Set{}, func(s *types.Solution) { s.Visible = false })

	cases := []struct {
		id   int
		want bool
	}{
		{shown.ID, true},
		{hidden.ID, false},
	}
	for _, tc := range cases {
		var got types.Solution
		if err := tx.First(&got, tc.id).Error; err != nil {
			t.Fatalf("load solution %d: %v", tc.id, err)
		}
		if got.Visible != tc.want {
			t.Fatalf("solution %d visible: want=%v got=%v", tc.id, tc.want, got.Visible)
		}
	}
	if hidden.Visible {
		t.Fatalf("returned fixture visible: want=false got=true")
	}
}
