package scheduler

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestQueueCoalesces(t *testing.T) {
	q := NewQueue()
	runs := 0
	job := NewJob("render", func() { runs++ })

	q.Enqueue(job)
	q.Enqueue(job)
	q.Enqueue(job)
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
	if !job.Queued() {
		t.Error("job should be queued")
	}

	if err := q.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if job.Queued() || q.Len() != 0 {
		t.Error("queue not drained")
	}
}

func TestQueueOrder(t *testing.T) {
	q := NewQueue()
	var order []string
	a := NewJob("a", func() { order = append(order, "a") })
	b := NewJob("b", func() { order = append(order, "b") })
	c := NewJob("c", func() { order = append(order, "c") })

	q.Enqueue(b)
	q.Enqueue(a)
	q.Enqueue(b)
	q.Enqueue(c)
	_ = q.Flush()

	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestQueueEnqueueDuringFlush(t *testing.T) {
	q := NewQueue()
	var order []string
	var second *Job
	second = NewJob("second", func() { order = append(order, "second") })
	first := NewJob("first", func() {
		order = append(order, "first")
		q.Enqueue(second)
	})

	q.Enqueue(first)
	if err := q.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	want := []string{"first", "second"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestQueueReenqueueSelfDuringFlush(t *testing.T) {
	q := NewQueue()
	runs := 0
	var job *Job
	job = NewJob("again", func() {
		runs++
		if runs < 3 {
			q.Enqueue(job)
		}
	})
	q.Enqueue(job)
	_ = q.Flush()
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
}

func TestQueuePassLimit(t *testing.T) {
	var buf bytes.Buffer
	q := NewQueue(WithMaxPasses(5), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	runs := 0
	var job *Job
	job = NewJob("runaway", func() {
		runs++
		q.Enqueue(job)
	})

	q.Enqueue(job)
	err := q.Flush()
	if !errors.Is(err, ErrFlushLimit) {
		t.Fatalf("Flush() error = %v, want ErrFlushLimit", err)
	}
	if runs != 5 {
		t.Errorf("runs = %d, want 5", runs)
	}
	if q.Len() != 0 || job.Queued() {
		t.Error("runaway job left in queue")
	}
	if !strings.Contains(buf.String(), "R107") {
		t.Errorf("expected R107 warning, got %q", buf.String())
	}
}

// A panicking job is isolated: later jobs in the same flush still run and
// the failure is returned.
func TestQueueIsolatesPanics(t *testing.T) {
	var buf bytes.Buffer
	q := NewQueue(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	ran := false

	q.Enqueue(NewJob("bad", func() { panic("boom") }))
	q.Enqueue(NewJob("good", func() { ran = true }))

	err := q.Flush()
	if !errors.Is(err, ErrJobPanicked) {
		t.Fatalf("Flush() error = %v, want ErrJobPanicked", err)
	}
	if !strings.Contains(err.Error(), "bad") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q should name the job and panic value", err)
	}
	if !ran {
		t.Error("job after panicking job did not run")
	}
	if q.Flushing() {
		t.Error("queue still flushing")
	}
	if !strings.Contains(buf.String(), "job panic") {
		t.Errorf("panic not logged: %q", buf.String())
	}
}

func TestQueueStoppedJob(t *testing.T) {
	q := NewQueue()
	runs := 0
	job := NewJob("x", func() { runs++ })

	q.Enqueue(job)
	job.Stop()
	_ = q.Flush()
	q.Enqueue(job)
	_ = q.Flush()

	if runs != 0 {
		t.Errorf("stopped job ran %d times", runs)
	}
}

func TestQueueNestedFlush(t *testing.T) {
	q := NewQueue()
	var nested error = errors.New("unset")
	q.Enqueue(NewJob("outer", func() { nested = q.Flush() }))
	_ = q.Flush()
	if nested != nil {
		t.Errorf("nested Flush() = %v, want nil", nested)
	}
}

func TestQueueReady(t *testing.T) {
	q := NewQueue()
	select {
	case <-q.Ready():
		t.Fatal("empty queue signalled ready")
	default:
	}

	q.Enqueue(NewJob("a", func() {}))
	q.Enqueue(NewJob("b", func() {}))

	select {
	case <-q.Ready():
	default:
		t.Fatal("queue not signalled after Enqueue")
	}
	select {
	case <-q.Ready():
		t.Fatal("ready signalled twice")
	default:
	}
}

func TestQueueConcurrentEnqueue(t *testing.T) {
	q := NewQueue()
	jobs := make([]*Job, 50)
	for i := range jobs {
		jobs[i] = NewJob("j", func() {})
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, j := range jobs {
				q.Enqueue(j)
			}
		}()
	}
	wg.Wait()

	if q.Len() != len(jobs) {
		t.Errorf("Len() = %d, want %d", q.Len(), len(jobs))
	}
}

func TestQueueConcurrentStopAndEnqueue(t *testing.T) {
	q := NewQueue()
	jobs := make([]*Job, 50)
	for i := range jobs {
		jobs[i] = NewJob("j", func() {})
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, j := range jobs {
			q.Enqueue(j)
		}
	}()
	go func() {
		defer wg.Done()
		for _, j := range jobs {
			j.Stop()
		}
	}()
	wg.Wait()

	for _, j := range jobs {
		if !j.Stopped() {
			t.Fatal("Stop() not observed")
		}
	}
	if err := q.Flush(); err != nil {
		t.Errorf("Flush() = %v", err)
	}
	for _, j := range jobs {
		if j.Queued() {
			t.Error("job still queued after flush")
			break
		}
	}
	q.Enqueue(jobs[0])
	if q.Len() != 0 {
		t.Errorf("Len() = %d after enqueueing a stopped job, want 0", q.Len())
	}
}

type recordingObserver struct {
	started  []int
	finished []string
	errs     []error
	flushes  int
	jobs     int
}

func (o *recordingObserver) FlushStarted(pending int) { o.started = append(o.started, pending) }

func (o *recordingObserver) JobFinished(name string, _ time.Duration, err error) {
	o.finished = append(o.finished, name)
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) FlushFinished(jobs, _ int, _ time.Duration, _ error) {
	o.flushes++
	o.jobs += jobs
}

func TestQueueObserver(t *testing.T) {
	obs := &recordingObserver{}
	q := NewQueue(WithObserver(obs), WithLogger(quietLogger()))

	q.Enqueue(NewJob("a", func() {}))
	q.Enqueue(NewJob("b", func() { panic("x") }))
	_ = q.Flush()

	if !reflect.DeepEqual(obs.started, []int{2}) {
		t.Errorf("started = %v, want [2]", obs.started)
	}
	if !reflect.DeepEqual(obs.finished, []string{"a", "b"}) {
		t.Errorf("finished = %v, want [a b]", obs.finished)
	}
	if obs.errs[0] != nil || !errors.Is(obs.errs[1], ErrJobPanicked) {
		t.Errorf("errs = %v", obs.errs)
	}
	if obs.flushes != 1 || obs.jobs != 2 {
		t.Errorf("flushes = %d jobs = %d, want 1 2", obs.flushes, obs.jobs)
	}
}

func TestFlushEmpty(t *testing.T) {
	obs := &recordingObserver{}
	q := NewQueue(WithObserver(obs))
	if err := q.Flush(); err != nil {
		t.Errorf("Flush() = %v", err)
	}
	if obs.flushes != 0 {
		t.Error("empty flush reported to observer")
	}
}
