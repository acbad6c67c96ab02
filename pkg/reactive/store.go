package reactive

import (
	"fmt"
	"sync"
)

// targetDeps holds the deps of one target, keyed by property.
type targetDeps struct {
	deps map[any]*Dep
}

// targetMap is the dependency store: target identity -> key -> Dep.
// A target is present only while some effect depends on one of its keys;
// emptied deps remove themselves through their cleanup callback.
//
// The map is shared by every goroutine running its own reactive graph, so
// it is guarded by targetMu. The lock is never held while effects or
// schedulers run.
var (
	targetMap = make(map[any]*targetDeps)
	targetMu  sync.Mutex
)

// Track subscribes the active effect, if any, to (target, key).
// target must be comparable; pointers are the usual choice.
func Track(target, key any) {
	e := activeEffect()
	if e == nil {
		return
	}
	trackEffect(e, depFor(target, key))
}

// depFor returns the dep for (target, key), creating it if needed.
func depFor(target, key any) *Dep {
	targetMu.Lock()
	defer targetMu.Unlock()

	td, ok := targetMap[target]
	if !ok {
		td = &targetDeps{deps: make(map[any]*Dep)}
		targetMap[target] = td
	}
	dep, ok := td.deps[key]
	if !ok {
		dep = newDep(nil, fmt.Sprint(key))
		dep.cleanup = func() {
			targetMu.Lock()
			defer targetMu.Unlock()
			if td.deps[key] == dep {
				delete(td.deps, key)
			}
			if len(td.deps) == 0 && targetMap[target] == td {
				delete(targetMap, target)
			}
		}
		td.deps[key] = dep
	}
	return dep
}

// Trigger invalidates every effect depending on (target, key).
func Trigger(target, key, newValue, oldValue any) {
	dep := DepFor(target, key)
	if dep == nil {
		return
	}
	triggerEffects(dep, &TriggerEvent{
		Target:   target,
		Key:      key,
		NewValue: newValue,
		OldValue: oldValue,
	})
}

// DepFor returns the dep registered for (target, key), or nil.
func DepFor(target, key any) *Dep {
	targetMu.Lock()
	defer targetMu.Unlock()
	if td, ok := targetMap[target]; ok {
		return td.deps[key]
	}
	return nil
}

// DepCount returns the number of keys of target that currently have
// subscribers.
func DepCount(target any) int {
	targetMu.Lock()
	defer targetMu.Unlock()
	if td, ok := targetMap[target]; ok {
		return len(td.deps)
	}
	return 0
}
