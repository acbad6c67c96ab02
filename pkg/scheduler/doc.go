// Package scheduler provides the job queue that defers and coalesces
// re-render work triggered by reactive state.
//
// Effects created by the renderer do not re-run when a dependency changes;
// their scheduler enqueues a Job instead. A job enqueued several times
// before the next flush runs once. Flush runs pending jobs in the order
// they were first enqueued.
//
//	q := scheduler.NewQueue()
//	job := scheduler.NewJob("render", func() { ... })
//	q.Enqueue(job)
//	q.Enqueue(job) // coalesced
//	if err := q.Flush(); err != nil {
//	    log.Println(err)
//	}
//
// Loop owns a queue on a single goroutine. Work posted with Dispatch runs
// on that goroutine and the queue is flushed after it, so reactive state
// never needs locking.
package scheduler
