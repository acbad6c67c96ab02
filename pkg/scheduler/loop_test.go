package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoopDispatchAndFlush(t *testing.T) {
	q := NewQueue(WithLogger(quietLogger()))
	flushed := make(chan error, 4)
	lp := NewLoop(q, WithFlushHook(func(err error) { flushed <- err }), WithLoopLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lp.Run(ctx) }()

	renders := 0
	job := NewJob("render", func() { renders++ })

	// State changes made in one dispatch coalesce into one render.
	if err := lp.Dispatch(ctx, func() {
		q.Enqueue(job)
		q.Enqueue(job)
	}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	select {
	case err := <-flushed:
		if err != nil {
			t.Errorf("flush error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not flush")
	}

	result := make(chan int, 1)
	_ = lp.Dispatch(ctx, func() { result <- renders })
	if got := <-result; got != 1 {
		t.Errorf("renders = %d, want 1", got)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestLoopFlushesOnReady(t *testing.T) {
	q := NewQueue()
	ran := make(chan struct{})
	lp := NewLoop(q)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = lp.Run(ctx) }()

	q.Enqueue(NewJob("external", func() { close(ran) }))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job enqueued outside the loop never ran")
	}
}

func TestLoopRecoversDispatchPanic(t *testing.T) {
	lp := NewLoop(NewQueue(), WithLoopLogger(quietLogger()))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = lp.Run(ctx) }()

	_ = lp.Dispatch(ctx, func() { panic("boom") })

	alive := make(chan struct{})
	_ = lp.Dispatch(ctx, func() { close(alive) })
	select {
	case <-alive:
	case <-time.After(time.Second):
		t.Fatal("loop died after dispatch panic")
	}
}

func TestLoopDispatchCanceled(t *testing.T) {
	lp := NewLoop(NewQueue(), WithDispatchBuffer(0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := lp.Dispatch(ctx, func() {}); !errors.Is(err, context.Canceled) {
		t.Errorf("Dispatch() = %v, want context.Canceled", err)
	}
}
