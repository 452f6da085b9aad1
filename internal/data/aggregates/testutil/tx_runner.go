package testutil

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/yungbote/daghub-backend/internal/data/aggregates"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
)

// errCommitInjected unwinds the savepoint when FailCommit is set.
var errCommitInjected = errors.New("injected commit failure")

// InjectedTxRunner fails catalogue writes at a chosen point. With Tx set the
// body runs inside a savepoint of Tx, so an injected commit failure also
// discards whatever the body wrote.
type InjectedTxRunner struct {
	mu sync.Mutex

	Tx *gorm.DB

	FailBegin      error
	FailBeforeBody error
	FailCommit     error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin, failBeforeBody, failCommit := r.FailBegin, r.FailBeforeBody, r.FailCommit
	r.mu.Unlock()

	switch {
	case failBegin != nil:
		return failBegin
	case failBeforeBody != nil:
		r.count(&r.RollbackCalls)
		return failBeforeBody
	}

	err := r.body(ctx, fn, failCommit != nil)
	if errors.Is(err, errCommitInjected) {
		err = failCommit
	}
	if err != nil {
		r.count(&r.RollbackCalls)
		return err
	}
	r.count(&r.CommitCalls)
	return nil
}

func (r *InjectedTxRunner) body(ctx context.Context, fn func(dbc dbctx.Context) error, failCommit bool) error {
	run := func(tx *gorm.DB) error {
		if err := fn(dbctx.Context{Ctx: ctx, Tx: tx}); err != nil {
			return err
		}
		if failCommit {
			return errCommitInjected
		}
		return nil
	}
	if r.Tx == nil {
		return run(nil)
	}
	return r.Tx.WithContext(ctx).Transaction(run)
}

func (r *InjectedTxRunner) count(n *int) {
	r.mu.Lock()
	*n++
	r.mu.Unlock()
}
