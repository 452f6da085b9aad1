package aggregates

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/daghub-backend/internal/domain/aggregates"
	"github.com/yungbote/daghub-backend/internal/platform/ctxutil"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

const defaultWriteOp = "catalogue.write"

// BaseDeps is shared by every catalogue aggregate.
type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	return d
}

// executeWrite runs fn as one transaction under a span named op. The mapped
// outcome feeds the hooks; conflicts and retryable failures are counted on
// top of the per-status operation count.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = defaultWriteOp
	}

	ctx, span := otel.Tracer("daghub/aggregates").Start(ctx, op)
	defer span.End()
	span.SetAttributes(attribute.String("catalogue.op", op))
	if id, ok := ctxutil.GetIdentity(ctx); ok {
		span.SetAttributes(attribute.Bool("catalogue.admin", id.IsAdmin()))
	}

	mapped := MapError(op, deps.Runner.InTx(ctx, fn))
	status := aggregateErrorStatus(mapped)
	span.SetAttributes(attribute.String("catalogue.status", status))

	switch {
	case mapped == nil:
	case domainagg.IsCode(mapped, domainagg.CodeConflict):
		deps.Hooks.IncConflict(op)
	case domainagg.IsCode(mapped, domainagg.CodeRetryable):
		deps.Hooks.IncRetry(op)
	}
	if mapped != nil {
		span.RecordError(mapped)
		span.SetStatus(codes.Error, status)
		logWriteFailure(ctx, deps.Log, op, status, mapped)
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

// logWriteFailure keeps caller mistakes at debug; only internal failures are
// errors.
func logWriteFailure(ctx context.Context, log *logger.Logger, op, status string, err error) {
	if log == nil {
		return
	}
	kv := []interface{}{"op", op, "status", status, "error", err}
	if reqID := ctxutil.RequestID(ctx); reqID != "" {
		kv = append(kv, "request_id", reqID)
	}
	switch domainagg.ErrorCode(status) {
	case domainagg.CodeInternal:
		log.Error("catalogue write failed", kv...)
	case domainagg.CodeConflict, domainagg.CodeRetryable:
		log.Warn("catalogue write rejected", kv...)
	default:
		log.Debug("catalogue write rejected", kv...)
	}
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
