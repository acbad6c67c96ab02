// Package reactive provides the dependency-tracking core of reactor.
//
// Reads of reactive state made while an Effect is running subscribe that
// effect to the state; writes invalidate exactly the effects that read the
// written property during their most recent run.
//
// # Core Types
//
// Proxy wraps a map so that reads track and writes trigger:
//
//	state := reactive.Reactive(map[string]any{"count": 0})
//	reactive.CreateEffect(func() {
//	    fmt.Println("count is", state.Get("count"))
//	})
//	state.Set("count", 1) // effect re-runs
//
// Ref[T] is a single reactive cell and Computed[T] a memoized derivation:
//
//	n := reactive.NewRef(2)
//	sq := reactive.NewComputed(func(int) int { return n.Get() * n.Get() })
//	sq.Get() // 4, recomputed only after n changes
//
// Watch observes a source and calls back with new and old values:
//
//	stop := reactive.Watch(n, func(nv, ov any, onCleanup reactive.OnCleanup) {
//	    fmt.Println(ov, "->", nv)
//	})
//	defer stop()
//
// # Threading
//
// The engine is single-threaded and cooperative. The currently running
// effect is tracked per goroutine, so every effect, its state and the code
// that writes that state must stay on one goroutine (typically the
// scheduler.Loop goroutine). Nothing in this package takes locks except the
// proxy identity cache, which is also touched by GC cleanups.
package reactive
