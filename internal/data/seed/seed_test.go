package seed_test

import (
	"context"
	"strings"
	"testing"

	repotest "github.com/yungbote/daghub-backend/internal/data/repos/testutil"
	"github.com/yungbote/daghub-backend/internal/data/seed"
	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/domain/dimension"
)

func TestLoadIsIdempotent(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()

	count := func(model any) int64 {
		var n int64
		if err := db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		return n
	}
	before := count(&types.Region{})

	ref, err := seed.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if err := seed.NewLoader(db, repotest.Logger(t)).Load(ctx, ref); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if after := count(&types.Region{}); after != before {
		t.Fatalf("regions after reload: want=%d got=%d", before, after)
	}

	var nairobi types.Region
	if err := db.WithContext(ctx).First(&nairobi, repotest.RegionNairobi).Error; err != nil {
		t.Fatalf("load region: %v", err)
	}
	if nairobi.CountryID != "KEN" || nairobi.Origin != dimension.OriginSeed {
		t.Fatalf("region: want KEN/seed got=%s/%s", nairobi.CountryID, nairobi.Origin)
	}

	var sub types.SubUseCase
	if err := db.WithContext(ctx).First(&sub, repotest.SubUseCaseCredit).Error; err != nil {
		t.Fatalf("load sub use case: %v", err)
	}
	if sub.UseCaseID != 3 {
		t.Fatalf("sub use case parent: want=3 got=%d", sub.UseCaseID)
	}
}

func TestParseRejectsUserRangeIDs(t *testing.T) {
	_, err := seed.Parse([]byte("languages:\n  - {id: 10000, description: Klingon}\n"))
	if err == nil || !strings.Contains(err.Error(), "outside") {
		t.Fatalf("Parse: want range error got=%v", err)
	}
	_, err = seed.Parse([]byte("countries:\n  - {id: KE, description: Kenya}\n"))
	if err == nil {
		t.Fatalf("Parse: want iso3 error")
	}
}
