package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	domainagg "github.com/yungbote/daghub-backend/internal/domain/aggregates"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

func TestExecuteWriteStatuses(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		status    string
		conflicts int
		retries   int
	}{
		{"ok", nil, "success", 0, 0},
		{"forbidden", ForbiddenError("not an owner"), string(domainagg.CodeForbidden), 0, 0},
		{"missing reference", NotFoundError("country ZZZ"), string(domainagg.CodeNotFound), 0, 0},
		{"invalid draft", ValidationError("name required"), string(domainagg.CodeValidation), 0, 0},
		{"stale version", ConflictError("organisation changed since it was read"), string(domainagg.CodeConflict), 1, 0},
		{"duplicate row", errors.New(`duplicate key value violates unique constraint "solution_countries_pkey"`), string(domainagg.CodeConflict), 1, 0},
		{"lock wait", RetryableError("temporary lock timeout"), string(domainagg.CodeRetryable), 0, 1},
		{"deadline", context.DeadlineExceeded, string(domainagg.CodeRetryable), 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &spyHooks{}
			err := executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks}, "Catalogue.Solution.Update", func(dbctx.Context) error {
				return tc.err
			})
			if (err == nil) != (tc.err == nil) {
				t.Fatalf("error: want=%v got=%v", tc.err, err)
			}
			if len(hooks.Operations) != 1 || hooks.Operations[0].Status != tc.status {
				t.Fatalf("status: want=%s got=%+v", tc.status, hooks.Operations)
			}
			if hooks.Operations[0].Name != "Catalogue.Solution.Update" {
				t.Fatalf("op: want=Catalogue.Solution.Update got=%s", hooks.Operations[0].Name)
			}
			if len(hooks.Conflicts) != tc.conflicts || len(hooks.Retries) != tc.retries {
				t.Fatalf("counters: want conflicts=%d retries=%d got conflicts=%v retries=%v", tc.conflicts, tc.retries, hooks.Conflicts, hooks.Retries)
			}
		})
	}
}

func TestExecuteWriteDefaultsOpName(t *testing.T) {
	hooks := &spyHooks{}
	_ = executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks}, "  ", func(dbctx.Context) error { return nil })
	if hooks.Operations[0].Name != "catalogue.write" {
		t.Fatalf("op: want=catalogue.write got=%q", hooks.Operations[0].Name)
	}
}

func TestExecuteWriteSpanCarriesOutcome(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))

	ok := func(dbctx.Context) error { return nil }
	stale := func(dbctx.Context) error { return ConflictError("solution changed since it was read") }
	_ = executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}}, "Catalogue.Organisation.Create", ok)
	_ = executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Log: logger.Nop()}, "Catalogue.Solution.Update", stale)

	ended := sr.Ended()
	if len(ended) != 2 {
		t.Fatalf("spans: want=2 got=%d", len(ended))
	}
	cases := []struct {
		name   string
		status string
		code   codes.Code
	}{
		{"Catalogue.Organisation.Create", "success", codes.Unset},
		{"Catalogue.Solution.Update", string(domainagg.CodeConflict), codes.Error},
	}
	for i, tc := range cases {
		span := ended[i]
		if span.Name() != tc.name {
			t.Fatalf("span %d name: want=%s got=%s", i, tc.name, span.Name())
		}
		if span.Status().Code != tc.code {
			t.Fatalf("%s span code: want=%v got=%v", tc.name, tc.code, span.Status().Code)
		}
		var status string
		for _, kv := range span.Attributes() {
			if kv.Key == "catalogue.status" {
				status = kv.Value.AsString()
			}
		}
		if status != tc.status {
			t.Fatalf("%s catalogue.status: want=%s got=%q", tc.name, tc.status, status)
		}
	}
}

func TestTaggedErrorsKeepOnlyDetail(t *testing.T) {
	err := MapError("Catalogue.Organisation.Update", ForbiddenError("caller 7 does not own organisation 3"))
	if got := domainagg.MessageOf(err); got != "caller 7 does not own organisation 3" {
		t.Fatalf("message: want=%q got=%q", "caller 7 does not own organisation 3", got)
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

type spyOperation struct {
	Name   string
	Status string
}

type spyHooks struct {
	Operations []spyOperation
	Conflicts  []string
	Retries    []string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) { h.Conflicts = append(h.Conflicts, name) }
func (h *spyHooks) IncRetry(name string)    { h.Retries = append(h.Retries, name) }
