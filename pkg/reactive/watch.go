package reactive

import (
	"fmt"

	"github.com/vango-dev/reactor/internal/errors"
)

// OnCleanup registers a function to run before the next callback
// invocation, or when the watcher stops.
type OnCleanup func(fn func())

// WatchCallback receives the new and old values of a watched source.
type WatchCallback func(newValue, oldValue any, onCleanup OnCleanup)

// StopHandle stops a watcher.
type StopHandle func()

type watchOptions struct {
	deep      bool
	depth     int
	immediate bool
	once      bool
	schedule  func(job func())
}

// WatchOption configures Watch and WatchEffect.
type WatchOption interface {
	applyWatch(o *watchOptions)
}

type watchOptionFunc func(*watchOptions)

func (f watchOptionFunc) applyWatch(o *watchOptions) { f(o) }

// Deep makes the watcher traverse the source so nested writes trigger it.
func Deep() WatchOption {
	return watchOptionFunc(func(o *watchOptions) { o.deep = true })
}

// Depth bounds the traversal of a deep watcher. Depth 1 observes only the
// top-level keys of a reactive object.
func Depth(n int) WatchOption {
	return watchOptionFunc(func(o *watchOptions) {
		o.deep = true
		o.depth = n
	})
}

// Immediate invokes the callback once at creation with a nil old value.
func Immediate() WatchOption {
	return watchOptionFunc(func(o *watchOptions) { o.immediate = true })
}

// Once stops the watcher after the first callback invocation.
func Once() WatchOption {
	return watchOptionFunc(func(o *watchOptions) { o.once = true })
}

// WithWatchScheduler defers watcher jobs through schedule instead of
// running them synchronously on trigger.
func WithWatchScheduler(schedule func(job func())) WatchOption {
	return watchOptionFunc(func(o *watchOptions) { o.schedule = schedule })
}

// Watch observes source and calls cb when it changes. source may be a
// *Proxy, an AnyRef (Ref, Computed, PropertyRef), a func() any, or a []any
// of those. A proxy source is observed deeply unless Depth says otherwise.
//
//	stop := reactive.Watch(count, func(n, old any, _ reactive.OnCleanup) {
//	    fmt.Println(old, "->", n)
//	})
//	defer stop()
func Watch(source any, cb WatchCallback, opts ...WatchOption) StopHandle {
	o := buildWatchOptions(opts)
	getter, ok := watchGetter(source, o)
	if !ok {
		errors.Warn(logger(), "R103", "source", fmt.Sprintf("%T", source))
		return func() {}
	}
	if cb != nil && o.deep {
		base := getter
		depth := o.depth
		getter = func() any { return Traverse(base(), depth) }
	}
	return doWatch(getter, cb, o)
}

// WatchEffect runs fn immediately and re-runs it whenever anything it read
// changes.
func WatchEffect(fn func(onCleanup OnCleanup), opts ...WatchOption) StopHandle {
	o := buildWatchOptions(opts)
	w := &watcher{}
	getter := func() any {
		w.runCleanup()
		fn(w.onCleanup)
		return nil
	}
	return w.start(getter, nil, o)
}

func buildWatchOptions(opts []WatchOption) watchOptions {
	var o watchOptions
	for _, opt := range opts {
		opt.applyWatch(&o)
	}
	return o
}

func watchGetter(source any, o watchOptions) (func() any, bool) {
	switch s := source.(type) {
	case *Proxy:
		depth := o.depth
		return func() any { return Traverse(s, depth) }, true
	case AnyRef:
		return s.GetAny, true
	case func() any:
		return s, true
	case []any:
		getters := make([]func() any, len(s))
		for i, src := range s {
			g, ok := watchGetter(src, o)
			if !ok {
				return nil, false
			}
			getters[i] = g
		}
		return func() any {
			out := make([]any, len(getters))
			for i, g := range getters {
				out[i] = g()
			}
			return out
		}, true
	}
	return nil, false
}

func doWatch(getter func() any, cb WatchCallback, o watchOptions) StopHandle {
	w := &watcher{}
	return w.start(getter, cb, o)
}

type watcher struct {
	effect   *Effect
	oldValue any
	cleanup  func()
}

func (w *watcher) onCleanup(fn func()) {
	w.cleanup = fn
}

func (w *watcher) runCleanup() {
	if fn := w.cleanup; fn != nil {
		w.cleanup = nil
		fn()
	}
}

func (w *watcher) start(getter func() any, cb WatchCallback, o watchOptions) StopHandle {
	var value any
	var stop StopHandle

	job := func() {
		if !w.effect.Active() {
			return
		}
		w.effect.Run()
		if cb == nil {
			return
		}
		w.runCleanup()
		newValue := value
		cb(newValue, w.oldValue, w.onCleanup)
		w.oldValue = newValue
		if o.once {
			stop()
		}
	}

	scheduler := job
	if o.schedule != nil {
		scheduler = func() { o.schedule(job) }
	}

	w.effect = NewEffect(func() { value = getter() }, scheduler, WithName("watch"))
	stop = func() {
		w.effect.Stop()
		w.runCleanup()
	}

	switch {
	case cb == nil:
		w.effect.Run()
	case o.immediate:
		job()
	default:
		w.effect.Run()
		w.oldValue = value
	}
	return stop
}

// Traverse reads every property reachable from v so that the active effect
// subscribes to all of them. depth <= 0 means unbounded. v is returned
// unchanged.
func Traverse(v any, depth int) any {
	traverse(v, depth, 0, make(map[any]struct{}))
	return v
}

func traverse(v any, depth, current int, seen map[any]struct{}) {
	switch x := v.(type) {
	case *Proxy:
		if x == nil {
			return
		}
		if depth > 0 && current >= depth {
			return
		}
		if _, ok := seen[x]; ok {
			return
		}
		seen[x] = struct{}{}
		for _, k := range x.Keys() {
			traverse(x.Get(k), depth, current+1, seen)
		}
	case AnyRef:
		if _, ok := seen[x]; ok {
			return
		}
		seen[x] = struct{}{}
		traverse(x.GetAny(), depth, current, seen)
	case []any:
		if depth > 0 && current >= depth {
			return
		}
		for _, e := range x {
			traverse(e, depth, current+1, seen)
		}
	}
}
