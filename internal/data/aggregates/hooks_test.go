package aggregates

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yungbote/daghub-backend/internal/observability"
)

func TestObservabilityHooksFoldUnknownOps(t *testing.T) {
	m := observability.New()
	hooks := NewObservabilityHooks(m)

	hooks.IncConflict("Catalogue.Solution.Update")
	hooks.IncConflict(" Catalogue.Solution.Update ")
	hooks.IncConflict("solution-update-42")
	hooks.ObserveOperation("Catalogue.Organisation.Delete", "success", time.Millisecond)

	want := `
# HELP daghub_aggregate_conflicts_total Optimistic concurrency conflicts by operation.
# TYPE daghub_aggregate_conflicts_total counter
daghub_aggregate_conflicts_total{operation="Catalogue.Solution.Update"} 2
daghub_aggregate_conflicts_total{operation="other"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "daghub_aggregate_conflicts_total"); err != nil {
		t.Fatalf("conflicts: %v", err)
	}
	if n, err := testutil.GatherAndCount(m.Registry(), "daghub_aggregate_operations_total"); err != nil || n != 1 {
		t.Fatalf("operations series: want=1 got=%d err=%v", n, err)
	}
}

func TestObservabilityHooksWithoutMetrics(t *testing.T) {
	if _, ok := NewObservabilityHooks(nil).(noopHooks); !ok {
		t.Fatalf("nil metrics: want=noopHooks")
	}
}
