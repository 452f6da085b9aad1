package services

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/daghub-backend/internal/data/repos"
	repotest "github.com/yungbote/daghub-backend/internal/data/repos/testutil"
	"github.com/yungbote/daghub-backend/internal/domain/facet"
	"github.com/yungbote/daghub-backend/internal/observability"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
)

func TestQueryLogWorkerFlushesOnClose(t *testing.T) {
	db := repotest.DB(t)
	log := repotest.Logger(t)
	set := repos.NewSet(db, log)
	w := NewQueryLogWorker(log, set.QueryLogs, observability.New(), 8)
	w.Start(context.Background())

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 0; i < 3; i++ {
		sel := facet.Selection{Technologies: []int{i + 1}}
		if !w.Record(NewQueryLog(sel, []int{i}, "req", at.Add(time.Duration(i)*time.Second))) {
			t.Fatalf("record %d: want accepted", i)
		}
	}
	w.Close()

	got, err := set.QueryLogs.Recent(dbctx.Context{Ctx: context.Background()}, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("written entries: want=3 got=%d", len(got))
	}
	if got[0].Technologies[0] != 3 {
		t.Fatalf("newest first: want technologies=[3] got=%v", got[0].Technologies)
	}
	if w.Record(NewQueryLog(facet.Selection{}, nil, "late", at)) {
		t.Fatalf("record after close: want dropped")
	}
}

func TestQueryLogWorkerDropsWhenFull(t *testing.T) {
	log := repotest.Logger(t)
	// never started, so the buffer only fills
	w := NewQueryLogWorker(log, nil, nil, 1)
	at := time.Now()
	if !w.Record(NewQueryLog(facet.Selection{}, nil, "a", at)) {
		t.Fatalf("first record: want accepted")
	}
	if w.Record(NewQueryLog(facet.Selection{}, nil, "b", at)) {
		t.Fatalf("second record: want dropped")
	}
}
