package reactive

import "reflect"

// HasChanged reports whether newValue differs from oldValue under strict
// inequality: maps, slices, pointers and channels compare by identity,
// other values with ==. NaN and non-nil funcs always count as changed.
func HasChanged(oldValue, newValue any) bool {
	return !sameValue(oldValue, newValue)
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if pa, ok := a.(*Proxy); ok {
		a = pa.raw
	}
	if pb, ok := b.(*Proxy); ok {
		b = pb.raw
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Func:
		// Closures of one literal share a code pointer, so funcs are
		// never considered equal.
		return va.IsNil() && vb.IsNil()
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return reflect.DeepEqual(a, b)
}

// defaultEquals compares two typed values with the same strict semantics.
func defaultEquals[T any](a, b T) bool {
	return sameValue(any(a), any(b))
}
