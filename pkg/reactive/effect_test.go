package reactive

import "testing"

func TestEffectRunsImmediately(t *testing.T) {
	count := NewRef(1)
	var seen []int

	e := CreateEffect(func() {
		seen = append(seen, count.Get())
	})
	defer e.Stop()

	if len(seen) != 1 || seen[0] != 1 {
		t.Fatalf("seen = %v, want [1]", seen)
	}

	count.Set(2)
	if len(seen) != 2 || seen[1] != 2 {
		t.Errorf("seen = %v, want [1 2]", seen)
	}
}

func TestEffectConditionalDependencies(t *testing.T) {
	flag := NewRef(true)
	a := NewRef("a")
	b := NewRef("b")
	runs := 0

	e := CreateEffect(func() {
		runs++
		if flag.Get() {
			_ = a.Get()
		} else {
			_ = b.Get()
		}
	})
	defer e.Stop()

	// Only flag and a are dependencies.
	b.Set("b2")
	if runs != 1 {
		t.Errorf("write to unread ref re-ran effect: runs = %d, want 1", runs)
	}

	flag.Set(false)
	if runs != 2 {
		t.Fatalf("runs = %d, want 2", runs)
	}

	// a was dropped after the branch switched.
	a.Set("a2")
	if runs != 2 {
		t.Errorf("write to dropped dep re-ran effect: runs = %d, want 2", runs)
	}
	if a.Dep() != nil {
		t.Errorf("dropped ref still holds a dep with %d subscribers", a.Dep().Len())
	}

	b.Set("b3")
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
	if got := e.DepCount(); got != 2 {
		t.Errorf("DepCount() = %d, want 2", got)
	}
}

func TestEffectReorderedDependencies(t *testing.T) {
	first := NewRef(true)
	a := NewRef(0)
	b := NewRef(0)
	runs := 0

	e := CreateEffect(func() {
		runs++
		if first.Get() {
			_ = a.Get()
			_ = b.Get()
		} else {
			_ = b.Get()
			_ = a.Get()
		}
	})
	defer e.Stop()

	first.Set(false)
	if runs != 2 {
		t.Fatalf("runs = %d, want 2", runs)
	}

	// Both deps survive the reorder.
	a.Set(1)
	b.Set(1)
	if runs != 4 {
		t.Errorf("runs = %d, want 4", runs)
	}
	if got := e.DepCount(); got != 3 {
		t.Errorf("DepCount() = %d, want 3", got)
	}
}

func TestEffectIdempotentTracking(t *testing.T) {
	count := NewRef(0)

	e := CreateEffect(func() {
		for i := 0; i < 5; i++ {
			_ = count.Get()
		}
	})
	defer e.Stop()

	if got := e.DepCount(); got != 1 {
		t.Errorf("DepCount() = %d, want 1", got)
	}
	if got := count.Dep().Len(); got != 1 {
		t.Errorf("dep subscribers = %d, want 1", got)
	}
}

func TestEffectStop(t *testing.T) {
	count := NewRef(0)
	runs := 0
	stopped := 0

	e := CreateEffect(func() {
		runs++
		_ = count.Get()
	}, WithOnStop(func() { stopped++ }))

	e.Stop()
	e.Stop()

	if stopped != 1 {
		t.Errorf("onStop called %d times, want 1", stopped)
	}
	if e.Active() {
		t.Error("effect still active after Stop")
	}
	if count.Dep() != nil {
		t.Error("stopped effect still subscribed")
	}

	count.Set(1)
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}

	// A stopped effect still runs its function, without tracking.
	e.Run()
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
	if e.DepCount() != 0 {
		t.Errorf("DepCount() = %d, want 0", e.DepCount())
	}
}

func TestEffectNoSelfTrigger(t *testing.T) {
	count := NewRef(0)
	runs := 0

	e := CreateEffect(func() {
		runs++
		count.Set(count.Get() + 1)
	})
	defer e.Stop()

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if count.Peek() != 1 {
		t.Errorf("count = %d, want 1", count.Peek())
	}
}

func TestEffectCustomScheduler(t *testing.T) {
	count := NewRef(0)
	var pending []*Effect
	runs := 0

	var e *Effect
	e = NewEffect(func() {
		runs++
		_ = count.Get()
	}, func() { pending = append(pending, e) })
	e.Run()

	count.Set(1)
	count.Set(2)
	if runs != 1 {
		t.Errorf("scheduler should defer runs: runs = %d, want 1", runs)
	}
	if len(pending) != 2 {
		t.Errorf("scheduled %d times, want 2", len(pending))
	}
	if !e.Dirty() {
		t.Error("triggered effect should be dirty")
	}

	e.Run()
	if runs != 2 || e.Dirty() {
		t.Errorf("runs = %d dirty = %v, want 2 false", runs, e.Dirty())
	}
}

func TestEffectNested(t *testing.T) {
	outer := NewRef(0)
	inner := NewRef(0)
	outerRuns, innerRuns := 0, 0

	var child *Effect
	parent := CreateEffect(func() {
		outerRuns++
		_ = outer.Get()
		if child == nil {
			child = CreateEffect(func() {
				innerRuns++
				_ = inner.Get()
			})
		}
	})
	defer parent.Stop()
	defer child.Stop()

	inner.Set(1)
	if outerRuns != 1 || innerRuns != 2 {
		t.Errorf("outer=%d inner=%d, want 1 2", outerRuns, innerRuns)
	}

	outer.Set(1)
	if outerRuns != 2 || innerRuns != 2 {
		t.Errorf("outer=%d inner=%d, want 2 2", outerRuns, innerRuns)
	}
}

func TestEffectPanicRestoresTracking(t *testing.T) {
	count := NewRef(0)

	e := NewEffect(func() {
		_ = count.Get()
		panic("boom")
	}, nil)

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		e.Run()
	}()

	if IsTracking() {
		t.Error("tracking context not restored after panic")
	}
	if e.Running() {
		t.Error("running counter not restored after panic")
	}
	if e.DepCount() != 1 {
		t.Errorf("DepCount() = %d, want 1", e.DepCount())
	}
}

func TestEffectOnTrigger(t *testing.T) {
	count := NewRef(0)
	var events []TriggerEvent

	e := CreateEffect(func() {
		_ = count.Get()
	}, WithOnTrigger(func(ev TriggerEvent) { events = append(events, ev) }))
	defer e.Stop()

	count.Set(7)
	if len(events) != 1 {
		t.Fatalf("got %d trigger events, want 1", len(events))
	}
	if events[0].NewValue != 7 || events[0].OldValue != 0 {
		t.Errorf("event = %+v, want new 7 old 0", events[0])
	}
}

func TestUntracked(t *testing.T) {
	count := NewRef(0)
	runs := 0

	e := CreateEffect(func() {
		runs++
		Untracked(func() {
			if IsTracking() {
				t.Error("IsTracking() inside Untracked")
			}
			_ = count.Get()
		})
	})
	defer e.Stop()

	count.Set(1)
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestDirtyLevelString(t *testing.T) {
	tests := []struct {
		level DirtyLevel
		want  string
	}{
		{NotDirty, "NotDirty"},
		{Dirty, "Dirty"},
		{DirtyLevel(2), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("DirtyLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
