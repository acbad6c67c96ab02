package scheduler

import "sync/atomic"

// Job is a unit of deferred work. Jobs are compared by pointer: enqueueing
// the same *Job twice before a flush runs it once.
//
// Queued and Stop are safe to call from any goroutine.
type Job struct {
	name    string
	fn      func()
	queued  atomic.Bool
	stopped atomic.Bool
}

// NewJob creates a job running fn.
func NewJob(name string, fn func()) *Job {
	return &Job{name: name, fn: fn}
}

// Name returns the diagnostic name of the job.
func (j *Job) Name() string {
	return j.name
}

// Queued reports whether the job is waiting for the next flush.
func (j *Job) Queued() bool {
	return j.queued.Load()
}

// Stop prevents the job from running again. A pending run is skipped.
func (j *Job) Stop() {
	j.stopped.Store(true)
}

// Stopped reports whether Stop was called.
func (j *Job) Stopped() bool {
	return j.stopped.Load()
}
