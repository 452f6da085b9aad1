package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
)

func TestInjectedTxRunner(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name                    string
		runner                  *InjectedTxRunner
		body                    error
		want                    error
		ran                     bool
		begin, commit, rollback int
	}{
		{"commit", &InjectedTxRunner{}, nil, nil, true, 1, 1, 0},
		{"body error", &InjectedTxRunner{}, boom, boom, true, 1, 0, 1},
		{"begin", &InjectedTxRunner{FailBegin: boom}, nil, boom, false, 1, 0, 0},
		{"before body", &InjectedTxRunner{FailBeforeBody: boom}, nil, boom, false, 1, 0, 1},
		{"commit failure", &InjectedTxRunner{FailCommit: boom}, nil, boom, true, 1, 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			err := tc.runner.InTx(context.Background(), func(dbctx.Context) error {
				ran = true
				return tc.body
			})
			if !errors.Is(err, tc.want) || (tc.want == nil && err != nil) {
				t.Fatalf("err: want=%v got=%v", tc.want, err)
			}
			if ran != tc.ran {
				t.Fatalf("body ran: want=%v got=%v", tc.ran, ran)
			}
			r := tc.runner
			if r.BeginCalls != tc.begin || r.CommitCalls != tc.commit || r.RollbackCalls != tc.rollback {
				t.Fatalf("counters: want=%d/%d/%d got=%d/%d/%d", tc.begin, tc.commit, tc.rollback, r.BeginCalls, r.CommitCalls, r.RollbackCalls)
			}
		})
	}
}
