package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	rerrors "github.com/vango-dev/reactor/internal/errors"
)

// DefaultMaxPasses bounds how many times Flush re-drains jobs enqueued by
// jobs of the same flush.
const DefaultMaxPasses = 100

var (
	// ErrJobPanicked wraps the panic value of a job that panicked.
	ErrJobPanicked = errors.New("scheduler: job panicked")

	// ErrFlushLimit is returned when jobs keep re-enqueueing work past the
	// pass limit.
	ErrFlushLimit = errors.New("scheduler: flush pass limit exceeded")
)

// Observer receives flush and job notifications. internal/telemetry
// implements it with Prometheus and OpenTelemetry.
type Observer interface {
	FlushStarted(pending int)
	JobFinished(name string, d time.Duration, err error)
	FlushFinished(jobs, passes int, d time.Duration, err error)
}

// Option configures a Queue.
type Option func(*Queue)

// WithLogger sets the logger for job failures.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) {
		if l != nil {
			q.logger = l
		}
	}
}

// WithMaxPasses sets the pass limit of Flush. Values below 1 are ignored.
func WithMaxPasses(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.maxPasses = n
		}
	}
}

// WithObserver registers an observer for flush and job events.
func WithObserver(o Observer) Option {
	return func(q *Queue) {
		q.observer = o
	}
}

// Queue coalesces jobs until Flush.
//
// Enqueue may be called from any goroutine; Flush must only run on the
// goroutine that owns the reactive state the jobs touch.
type Queue struct {
	mu       sync.Mutex
	pending  []*Job
	flushing bool

	ready chan struct{}

	logger    *slog.Logger
	maxPasses int
	observer  Observer
}

// NewQueue creates an empty queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		ready:     make(chan struct{}, 1),
		logger:    slog.Default(),
		maxPasses: DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue schedules job for the next flush. A job already pending is not
// added again.
func (q *Queue) Enqueue(job *Job) {
	if job == nil || job.stopped.Load() {
		return
	}
	q.mu.Lock()
	if job.queued.Load() {
		q.mu.Unlock()
		return
	}
	job.queued.Store(true)
	q.pending = append(q.pending, job)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
		// Already signalled
	}
}

// Ready is signalled when the queue goes from empty to non-empty.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the number of pending jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flushing reports whether a flush is in progress.
func (q *Queue) Flushing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.flushing
}

// Flush runs pending jobs in enqueue order. Jobs enqueued while flushing
// run in a later pass of the same call. A panicking job is logged and
// reported; the remaining jobs still run. The returned error joins every
// job failure, plus ErrFlushLimit if the pass limit was hit.
//
// A nested Flush from inside a job returns nil without running anything.
func (q *Queue) Flush() error {
	q.mu.Lock()
	if q.flushing || len(q.pending) == 0 {
		q.mu.Unlock()
		return nil
	}
	q.flushing = true
	pending := len(q.pending)
	q.mu.Unlock()

	start := time.Now()
	if q.observer != nil {
		q.observer.FlushStarted(pending)
	}

	var errs []error
	jobs, passes := 0, 0
	for {
		batch := q.take()
		if len(batch) == 0 {
			break
		}
		if passes == q.maxPasses {
			q.drop(batch)
			e := rerrors.Warn(q.logger, "R107", "passes", passes, "dropped", len(batch))
			errs = append(errs, fmt.Errorf("%w: %w", ErrFlushLimit, e))
			break
		}
		passes++
		for _, job := range batch {
			if job.stopped.Load() {
				continue
			}
			jobs++
			if err := q.run(job); err != nil {
				errs = append(errs, err)
			}
		}
	}

	q.mu.Lock()
	q.flushing = false
	q.mu.Unlock()

	err := errors.Join(errs...)
	if q.observer != nil {
		q.observer.FlushFinished(jobs, passes, time.Since(start), err)
	}
	return err
}

// take removes the pending jobs and clears their queued flag so they can
// be enqueued again while they run.
func (q *Queue) take() []*Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.pending
	q.pending = nil
	for _, job := range batch {
		job.queued.Store(false)
	}
	return batch
}

func (q *Queue) drop(batch []*Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range batch {
		job.queued.Store(false)
	}
}

// run executes one job with panic recovery.
func (q *Queue) run(job *Job) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			q.logger.Error("job panic",
				"code", "R108",
				"job", job.name,
				"panic", r,
				"stack", string(stack))
			err = fmt.Errorf("%w: %s: %v", ErrJobPanicked, job.name, r)
		}
		if q.observer != nil {
			q.observer.JobFinished(job.name, time.Since(start), err)
		}
	}()
	job.fn()
	return nil
}
