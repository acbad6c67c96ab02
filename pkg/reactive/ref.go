package reactive

import (
	"fmt"

	"github.com/vango-dev/reactor/internal/errors"
)

// AnyRef is implemented by every single-value reactive cell. It is the
// type-erased form used by watch sources, ProxyRefs and vnode ref bindings.
type AnyRef interface {
	GetAny() any
	SetAny(v any)
}

// Ref is a single boxed reactive value. It owns one Dep, created on the
// first tracked read and released when its last subscriber leaves.
type Ref[T any] struct {
	value T
	dep   *Dep
	equal func(T, T) bool
}

// NewRef creates a ref holding v.
func NewRef[T any](v T) *Ref[T] {
	return &Ref[T]{value: v}
}

// Get returns the value and tracks the read.
func (r *Ref[T]) Get() T {
	trackRefValue(&r.dep, "ref")
	return r.value
}

// Peek returns the value without tracking.
func (r *Ref[T]) Peek() T {
	return r.value
}

// Set stores v and triggers subscribers if it differs from the current
// value.
func (r *Ref[T]) Set(v T) {
	if r.equals(r.value, v) {
		return
	}
	old := r.value
	r.value = v
	triggerRefValue(r.dep, r, v, old)
}

// Update replaces the value with fn(current).
func (r *Ref[T]) Update(fn func(T) T) {
	r.Set(fn(r.value))
}

// WithEquals configures the equality used to decide whether Set triggers.
func (r *Ref[T]) WithEquals(fn func(T, T) bool) *Ref[T] {
	r.equal = fn
	return r
}

// GetAny implements AnyRef.
func (r *Ref[T]) GetAny() any {
	return r.Get()
}

// SetAny implements AnyRef. A nil value stores the zero value; a value of
// another type is rejected with a warning.
func (r *Ref[T]) SetAny(v any) {
	if v == nil {
		var zero T
		r.Set(zero)
		return
	}
	tv, ok := v.(T)
	if !ok {
		errors.Warn(logger(), "R109", "want", fmt.Sprintf("%T", r.value), "got", fmt.Sprintf("%T", v))
		return
	}
	r.Set(tv)
}

// Dep returns the ref's dep, or nil when nothing is subscribed.
func (r *Ref[T]) Dep() *Dep {
	return r.dep
}

func (r *Ref[T]) equals(a, b T) bool {
	if r.equal != nil {
		return r.equal(a, b)
	}
	return defaultEquals(a, b)
}

// IsRef reports whether v is a reactive cell.
func IsRef(v any) bool {
	_, ok := v.(AnyRef)
	return ok
}

// Unref returns the value of a ref, or v itself.
func Unref(v any) any {
	if r, ok := v.(AnyRef); ok {
		return r.GetAny()
	}
	return v
}

// trackRefValue subscribes the active effect to the dep stored in *slot,
// creating it on demand. The dep clears the slot once it empties.
func trackRefValue(slot **Dep, name string) {
	e := activeEffect()
	if e == nil {
		return
	}
	if *slot == nil {
		dep := newDep(nil, name)
		dep.cleanup = func() {
			if *slot == dep {
				*slot = nil
			}
		}
		*slot = dep
	}
	trackEffect(e, *slot)
}

func triggerRefValue(dep *Dep, target, newValue, oldValue any) {
	if dep == nil {
		return
	}
	triggerEffects(dep, &TriggerEvent{
		Target:   target,
		Key:      "value",
		NewValue: newValue,
		OldValue: oldValue,
	})
}
