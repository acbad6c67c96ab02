package reactive

// DirtyLevel describes whether a memoized computation must re-run before
// its cached value can be used.
type DirtyLevel uint8

const (
	NotDirty DirtyLevel = 0
	Dirty    DirtyLevel = 4
)

// String returns the name of the level.
func (l DirtyLevel) String() string {
	switch l {
	case NotDirty:
		return "NotDirty"
	case Dirty:
		return "Dirty"
	default:
		return "Unknown"
	}
}

// TriggerEvent describes the write that invalidated an effect.
type TriggerEvent struct {
	Target   any
	Key      any
	NewValue any
	OldValue any
}

// Effect is a re-runnable computation tracked for reactive dependencies.
//
// Before each run the effect starts a new tracking generation (trackID);
// every dependency read during the run is recorded in order, and
// dependencies that were read last time but not this time are released
// when the run ends.
type Effect struct {
	id   uint64
	name string

	fn        func()
	scheduler func()
	onStop    func()
	onTrigger func(TriggerEvent)

	// trackID is incremented at the start of every run.
	trackID uint64

	// deps[:depsLen] are the deps subscribed to in the current run.
	deps    []*Dep
	depsLen int

	// running > 0 while fn executes; suppresses self-scheduling.
	running int

	active     bool
	dirtyLevel DirtyLevel
}

// EffectOption configures an Effect.
type EffectOption interface {
	applyEffect(e *Effect)
}

type effectOptionFunc func(*Effect)

func (f effectOptionFunc) applyEffect(e *Effect) { f(e) }

// WithName sets the diagnostic name of the effect.
func WithName(name string) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.name = name
	})
}

// WithScheduler replaces the scheduler invoked when the effect is triggered.
func WithScheduler(fn func()) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.scheduler = fn
	})
}

// WithOnStop registers a callback invoked once when the effect is stopped.
func WithOnStop(fn func()) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.onStop = fn
	})
}

// WithOnTrigger registers a debug callback invoked for every write that
// triggers the effect.
func WithOnTrigger(fn func(TriggerEvent)) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.onTrigger = fn
	})
}

// NewEffect creates an effect around fn. The scheduler, if non-nil, is
// called whenever a dependency changes; it decides when to call Run.
// The effect does not run until Run is called and starts out dirty.
func NewEffect(fn func(), scheduler func(), opts ...EffectOption) *Effect {
	e := &Effect{
		id:         nextID(),
		fn:         fn,
		scheduler:  scheduler,
		active:     true,
		dirtyLevel: Dirty,
	}
	for _, opt := range opts {
		opt.applyEffect(e)
	}
	return e
}

// CreateEffect creates an effect that re-runs synchronously whenever one of
// its dependencies changes, runs it once, and returns it.
//
//	e := reactive.CreateEffect(func() {
//	    fmt.Println("count is", count.Get())
//	})
//	defer e.Stop()
func CreateEffect(fn func(), opts ...EffectOption) *Effect {
	e := NewEffect(fn, nil)
	e.scheduler = e.Run
	for _, opt := range opts {
		opt.applyEffect(e)
	}
	e.Run()
	return e
}

// ID returns the unique identifier of the effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Name returns the diagnostic name of the effect.
func (e *Effect) Name() string {
	return e.name
}

// Active reports whether the effect still tracks dependencies.
func (e *Effect) Active() bool {
	return e.active
}

// Running reports whether the effect's function is executing.
func (e *Effect) Running() bool {
	return e.running > 0
}

// Dirty reports whether the effect was invalidated since its last run.
func (e *Effect) Dirty() bool {
	return e.dirtyLevel == Dirty
}

// SetDirty forces the dirty state.
func (e *Effect) SetDirty(v bool) {
	if v {
		e.dirtyLevel = Dirty
	} else {
		e.dirtyLevel = NotDirty
	}
}

// DepCount returns the number of deps the effect is subscribed to.
func (e *Effect) DepCount() int {
	return len(e.deps)
}

// Run executes the effect function, re-deriving its dependency set.
// Bookkeeping is restored even if fn panics; the panic propagates.
// A stopped effect still runs fn, without tracking.
func (e *Effect) Run() {
	e.dirtyLevel = NotDirty
	if !e.active {
		e.fn()
		return
	}

	frame := enterEffect(e)
	preCleanEffect(e)
	e.running++
	defer func() {
		e.running--
		postCleanEffect(e)
		exitEffect(frame)
	}()

	e.fn()
}

// Stop severs all dependency links. Later writes to former dependencies do
// not trigger the effect.
func (e *Effect) Stop() {
	if !e.active {
		return
	}
	e.active = false
	preCleanEffect(e)
	postCleanEffect(e)
	if e.onStop != nil {
		e.onStop()
	}
}

// preCleanEffect starts a new tracking generation.
func preCleanEffect(e *Effect) {
	e.depsLen = 0
	e.trackID++
}

// postCleanEffect releases deps beyond the ones refreshed in this run.
func postCleanEffect(e *Effect) {
	if len(e.deps) <= e.depsLen {
		return
	}
	for i := e.depsLen; i < len(e.deps); i++ {
		cleanupDepEffect(e.deps[i], e)
		e.deps[i] = nil
	}
	e.deps = e.deps[:e.depsLen]
}

// trackEffect subscribes e to dep for the current run. Repeated reads of
// the same dep within one run subscribe once.
func trackEffect(e *Effect, dep *Dep) {
	if dep.fresh(e) {
		return
	}
	dep.set(e, e.trackID)

	if e.depsLen < len(e.deps) {
		old := e.deps[e.depsLen]
		if old != dep {
			cleanupDepEffect(old, e)
			e.deps[e.depsLen] = dep
		}
	} else {
		e.deps = append(e.deps, dep)
	}
	e.depsLen++
}

// triggerEffects marks every effect subscribed to dep dirty and invokes its
// scheduler unless the effect is currently running.
func triggerEffects(dep *Dep, ev *TriggerEvent) {
	for _, e := range dep.Effects() {
		// Skip effects unsubscribed by an earlier scheduler in this loop.
		if !dep.fresh(e) {
			continue
		}
		if e.dirtyLevel < Dirty {
			e.dirtyLevel = Dirty
		}
		if ev != nil && e.onTrigger != nil {
			e.onTrigger(*ev)
		}
		if e.scheduler != nil && e.running == 0 {
			e.scheduler()
		}
	}
}
