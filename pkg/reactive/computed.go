package reactive

import "github.com/vango-dev/reactor/internal/errors"

// Computed is a memoized derived value. Its getter runs inside an internal
// effect; when one of the getter's dependencies changes the effect is
// marked dirty and the computed's own subscribers are triggered. The value
// is recomputed lazily, on the next Get.
type Computed[T any] struct {
	value  T
	getter func(old T) T
	setter func(T)
	effect *Effect
	dep    *Dep
}

// NewComputed creates a read-only computed value. The getter receives the
// previously computed value (the zero value on the first run).
//
//	double := reactive.NewComputed(func(int) int {
//	    return count.Get() * 2
//	})
func NewComputed[T any](getter func(old T) T) *Computed[T] {
	return NewWritableComputed(getter, nil)
}

// NewWritableComputed creates a computed value whose Set calls setter.
func NewWritableComputed[T any](getter func(old T) T, setter func(T)) *Computed[T] {
	c := &Computed[T]{getter: getter, setter: setter}
	c.effect = NewEffect(
		func() { c.value = c.getter(c.value) },
		func() { triggerRefValue(c.dep, c, nil, nil) },
		WithName("computed"),
	)
	return c
}

// Get returns the cached value, recomputing it first if a dependency
// changed. The read is tracked.
func (c *Computed[T]) Get() T {
	if c.effect.Dirty() {
		c.recompute()
	}
	trackRefValue(&c.dep, "computed")
	return c.value
}

// Peek returns the cached value, recomputing if needed, without tracking.
func (c *Computed[T]) Peek() T {
	if c.effect.Dirty() {
		c.recompute()
	}
	return c.value
}

func (c *Computed[T]) recompute() {
	ok := false
	defer func() {
		if !ok {
			// getter panicked; the cached value is not valid
			c.effect.SetDirty(true)
		}
	}()
	c.effect.Run()
	ok = true
}

// Set forwards v to the setter. Writing a read-only computed logs R102 and
// does nothing.
func (c *Computed[T]) Set(v T) {
	if c.setter == nil {
		errors.Warn(logger(), "R102", "effect", c.effect.ID())
		return
	}
	c.setter(v)
}

// Dirty reports whether the next Get will recompute.
func (c *Computed[T]) Dirty() bool {
	return c.effect.Dirty()
}

// Effect returns the internal effect. Stopping it freezes the computed at
// its last value.
func (c *Computed[T]) Effect() *Effect {
	return c.effect
}

// GetAny implements AnyRef.
func (c *Computed[T]) GetAny() any {
	return c.Get()
}

// SetAny implements AnyRef.
func (c *Computed[T]) SetAny(v any) {
	tv, ok := v.(T)
	if !ok && v != nil {
		errors.Warn(logger(), "R109", "kind", "computed")
		return
	}
	c.Set(tv)
}
