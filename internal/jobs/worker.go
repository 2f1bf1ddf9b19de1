package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

// Task is one run of a periodic job.
type Task func(ctx context.Context) error

// Worker runs a Task on a fixed interval in its own goroutine, detached from
// any request. A failing or panicking run is logged and the next tick runs as usual.
type Worker struct {
	name     string
	interval time.Duration
	task     Task
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewWorker(baseLog *logger.Logger, name string, interval time.Duration, task Task) *Worker {
	return &Worker{
		name:     name,
		interval: interval,
		task:     task,
		log:      baseLog.With("component", "JobWorker", "job", name),
	}
}

// Start is a no-op if the worker is already running or has no task.
func (w *Worker) Start(ctx context.Context) {
	if w == nil || w.task == nil || w.interval <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		w.log.Info("job worker started", "interval", w.interval.String())
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}(w.done)
}

// Stop cancels the loop and waits for an in-flight run to return.
func (w *Worker) Stop() {
	if w == nil {
		return
	}
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	w.log.Info("job worker stopped")
}

func (w *Worker) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("job panic", "panic", fmt.Sprint(r))
		}
	}()
	if err := w.task(ctx); err != nil {
		w.log.Warn("job run failed", "error", err)
	}
}
