package reactive

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

type watchCall struct {
	newValue, oldValue any
}

func recordWatch(calls *[]watchCall) WatchCallback {
	return func(n, o any, _ OnCleanup) {
		*calls = append(*calls, watchCall{n, o})
	}
}

func TestWatchLazy(t *testing.T) {
	r := NewRef(1)
	var calls []watchCall

	stop := Watch(r, recordWatch(&calls))
	defer stop()

	if len(calls) != 0 {
		t.Fatalf("callback ran at setup: %v", calls)
	}

	r.Set(2)
	want := []watchCall{{2, 1}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestWatchImmediate(t *testing.T) {
	r := NewRef(1)
	var calls []watchCall

	stop := Watch(r, recordWatch(&calls), Immediate())
	defer stop()

	want := []watchCall{{1, nil}}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}

	r.Set(2)
	want = append(want, watchCall{2, 1})
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestWatchFunctionSource(t *testing.T) {
	a := NewRef(1)
	b := NewRef(2)
	var calls []watchCall

	stop := Watch(func() any { return a.Get() + b.Get() }, recordWatch(&calls))
	defer stop()

	b.Set(5)
	if len(calls) != 1 || calls[0].newValue != 6 || calls[0].oldValue != 3 {
		t.Errorf("calls = %v, want [{6 3}]", calls)
	}
}

func TestWatchMultipleSources(t *testing.T) {
	a := NewRef("x")
	b := NewRef(1)
	var calls []watchCall

	stop := Watch([]any{a, b}, recordWatch(&calls))
	defer stop()

	b.Set(2)
	want := []watchCall{{[]any{"x", 2}, []any{"x", 1}}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestWatchReactiveIsDeep(t *testing.T) {
	state := Reactive(map[string]any{
		"user": map[string]any{"name": "a"},
	})
	calls := 0

	stop := Watch(state, func(any, any, OnCleanup) { calls++ })
	defer stop()

	state.Get("user").(*Proxy).Set("name", "b")
	if calls != 1 {
		t.Errorf("nested write: calls = %d, want 1", calls)
	}
}

func TestWatchDepthBound(t *testing.T) {
	state := Reactive(map[string]any{
		"user": map[string]any{"name": "a"},
	})
	calls := 0

	stop := Watch(state, func(any, any, OnCleanup) { calls++ }, Depth(1))
	defer stop()

	state.Get("user").(*Proxy).Set("name", "b")
	if calls != 0 {
		t.Errorf("write below depth bound: calls = %d, want 0", calls)
	}
	state.Set("user", map[string]any{"name": "c"})
	if calls != 1 {
		t.Errorf("top-level write: calls = %d, want 1", calls)
	}
}

func TestWatchDeepRef(t *testing.T) {
	r := NewRef(Reactive(map[string]any{"n": 1}))
	calls := 0

	stop := Watch(r, func(any, any, OnCleanup) { calls++ }, Deep())
	defer stop()

	r.Peek().Set("n", 2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestTraverseCycle(t *testing.T) {
	a := map[string]any{}
	b := map[string]any{"a": a}
	a["b"] = b

	reads := 0
	e := CreateEffect(func() {
		reads++
		Traverse(Reactive(a), 0)
	})
	defer e.Stop()

	if got := DepCount(Reactive(a)); got != 2 {
		t.Errorf("DepCount(a) = %d, want 2 (b and key iteration)", got)
	}
	Reactive(b).Set("x", 1)
	if reads != 2 {
		t.Errorf("reads = %d, want 2", reads)
	}
}

func TestWatchCleanup(t *testing.T) {
	r := NewRef(0)
	var log []string

	stop := Watch(r, func(n, _ any, onCleanup OnCleanup) {
		v := n.(int)
		log = append(log, "cb")
		onCleanup(func() { log = append(log, "cleanup") })
		_ = v
	})

	r.Set(1)
	r.Set(2)
	stop()
	r.Set(3)

	want := []string{"cb", "cleanup", "cb", "cleanup"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestWatchStop(t *testing.T) {
	r := NewRef(0)
	calls := 0
	stop := Watch(r, func(any, any, OnCleanup) { calls++ })
	stop()
	r.Set(1)
	if calls != 0 {
		t.Errorf("stopped watcher fired: calls = %d", calls)
	}
}

func TestWatchOnce(t *testing.T) {
	r := NewRef(0)
	calls := 0
	Watch(r, func(any, any, OnCleanup) { calls++ }, Once())
	r.Set(1)
	r.Set(2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWatchScheduler(t *testing.T) {
	r := NewRef(0)
	var queued []func()
	calls := 0

	stop := Watch(r, func(any, any, OnCleanup) { calls++ },
		WithWatchScheduler(func(job func()) { queued = append(queued, job) }))
	defer stop()

	r.Set(1)
	if calls != 0 || len(queued) != 1 {
		t.Fatalf("calls = %d queued = %d, want 0 1", calls, len(queued))
	}
	queued[0]()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWatchEffect(t *testing.T) {
	r := NewRef(0)
	var log []string

	stop := WatchEffect(func(onCleanup OnCleanup) {
		n := r.Get()
		log = append(log, "run")
		onCleanup(func() { log = append(log, "cleanup") })
		_ = n
	})

	r.Set(1)
	stop()
	r.Set(2)

	want := []string{"run", "cleanup", "run", "cleanup"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestWatchInvalidSource(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	stop := Watch(42, func(any, any, OnCleanup) {})
	stop()
	if !strings.Contains(buf.String(), "R103") {
		t.Errorf("expected R103 warning, got %q", buf.String())
	}
}
