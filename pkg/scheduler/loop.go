package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"
)

// Loop runs dispatched functions and queue flushes on one goroutine.
type Loop struct {
	queue      *Queue
	dispatchCh chan func()
	logger     *slog.Logger
	onFlush    func(error)
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the logger for dispatch panics.
func WithLoopLogger(l *slog.Logger) LoopOption {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// WithFlushHook registers fn to run after every flush with its result.
// The dev server uses it to push the host mutations produced by a render.
func WithFlushHook(fn func(error)) LoopOption {
	return func(lp *Loop) {
		lp.onFlush = fn
	}
}

// WithDispatchBuffer sets the capacity of the dispatch channel.
func WithDispatchBuffer(n int) LoopOption {
	return func(lp *Loop) {
		lp.dispatchCh = make(chan func(), n)
	}
}

// NewLoop creates a loop around q.
func NewLoop(q *Queue, opts ...LoopOption) *Loop {
	lp := &Loop{
		queue:      q,
		dispatchCh: make(chan func(), 64),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(lp)
	}
	return lp
}

// Queue returns the loop's queue.
func (lp *Loop) Queue() *Queue {
	return lp.queue
}

// Dispatch posts fn to run on the loop goroutine. It blocks while the
// dispatch buffer is full and gives up when ctx is done.
func (lp *Loop) Dispatch(ctx context.Context, fn func()) error {
	select {
	case lp.dispatchCh <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes dispatched functions and flushes the queue until ctx is
// done. Every dispatched function is followed by a flush, so state changes
// it makes are rendered before the next function runs.
func (lp *Loop) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-lp.dispatchCh:
			lp.execute(fn)
			lp.flush()

		case <-lp.queue.Ready():
			lp.flush()

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (lp *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			lp.logger.Error("dispatch panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (lp *Loop) flush() {
	if lp.queue.Len() == 0 {
		return
	}
	err := lp.queue.Flush()
	if err != nil {
		lp.logger.Warn("flush failed", "error", err)
	}
	if lp.onFlush != nil {
		lp.onFlush(err)
	}
}
