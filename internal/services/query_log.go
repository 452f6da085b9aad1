package services

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/daghub-backend/internal/data/repos"
	types "github.com/yungbote/daghub-backend/internal/domain"
	"github.com/yungbote/daghub-backend/internal/observability"
	"github.com/yungbote/daghub-backend/internal/platform/dbctx"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

const queryLogBatch = 32

// QueryLogWorker persists query log entries on a background goroutine.
// Record never blocks: when the buffer is full the entry is dropped and
// counted.
type QueryLogWorker struct {
	log     *logger.Logger
	repo    repos.QueryLogRepo
	metrics *observability.Metrics

	mu      sync.RWMutex
	closed  bool
	entries chan *types.QueryLog
	done    chan struct{}
	once    sync.Once
}

func NewQueryLogWorker(log *logger.Logger, repo repos.QueryLogRepo, metrics *observability.Metrics, buffer int) *QueryLogWorker {
	if buffer <= 0 {
		buffer = 1024
	}
	return &QueryLogWorker{
		log:     log.With("service", "QueryLogWorker"),
		repo:    repo,
		metrics: metrics,
		entries: make(chan *types.QueryLog, buffer),
		done:    make(chan struct{}),
	}
}

// Start drains the buffer until ctx ends or Close is called, then flushes
// what is left.
func (w *QueryLogWorker) Start(ctx context.Context) {
	w.once.Do(func() {
		go w.run(ctx)
	})
}

func (w *QueryLogWorker) Record(entry *types.QueryLog) bool {
	if w == nil || entry == nil {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.metrics.IncQueryLogDropped()
		return false
	}
	select {
	case w.entries <- entry:
		return true
	default:
		w.metrics.IncQueryLogDropped()
		return false
	}
}

// Close stops accepting entries and waits for the pending ones to be written.
func (w *QueryLogWorker) Close() {
	if w == nil {
		return
	}
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.entries)
	}
	w.mu.Unlock()
	w.Start(context.Background())
	<-w.done
}

func (w *QueryLogWorker) run(ctx context.Context) {
	defer close(w.done)
	batch := make([]*types.QueryLog, 0, queryLogBatch)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		wctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := w.repo.Create(dbctx.Context{Ctx: wctx}, batch...); err != nil {
			w.log.Warn("query log write failed", "error", err, "entries", len(batch))
		} else {
			w.metrics.AddQueryLogWritten(len(batch))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			w.drain(&batch, flush)
			return
		case e, ok := <-w.entries:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e)
			// take whatever else is already queued before writing
			for len(batch) < queryLogBatch {
				select {
				case more, ok := <-w.entries:
					if !ok {
						flush()
						return
					}
					batch = append(batch, more)
					continue
				default:
				}
				break
			}
			flush()
		}
	}
}

func (w *QueryLogWorker) drain(batch *[]*types.QueryLog, flush func()) {
	for {
		select {
		case e, ok := <-w.entries:
			if !ok {
				flush()
				return
			}
			*batch = append(*batch, e)
			if len(*batch) >= queryLogBatch {
				flush()
			}
		default:
			flush()
			return
		}
	}
}
