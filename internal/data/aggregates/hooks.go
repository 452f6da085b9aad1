package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/daghub-backend/internal/observability"
)

// Hooks receives the outcome of every catalogue write.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

// catalogueOps are the write operations exported as metric labels. Anything
// else is folded into "other".
var catalogueOps = map[string]struct{}{
	"Catalogue.Organisation.Create": {},
	"Catalogue.Organisation.Update": {},
	"Catalogue.Organisation.Delete": {},
	"Catalogue.Solution.Create":     {},
	"Catalogue.Solution.Update":     {},
	"Catalogue.Solution.Delete":     {},
	defaultWriteOp:                  {},
}

func opLabel(op string) string {
	op = strings.TrimSpace(op)
	if _, ok := catalogueOps[op]; ok {
		return op
	}
	return "other"
}

type metricHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks reports write outcomes to metrics. A nil metrics
// yields hooks that do nothing.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricHooks{metrics: metrics}
}

func (h metricHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.ObserveAggregateOperation(opLabel(name), strings.TrimSpace(status), dur)
}

func (h metricHooks) IncConflict(name string) { h.metrics.IncAggregateConflict(opLabel(name)) }
func (h metricHooks) IncRetry(name string)    { h.metrics.IncAggregateRetry(opLabel(name)) }
