package reactive

import (
	"math"
	"reflect"
)

// SameValue reports whether a and b are the same value. Comparable values are
// compared with == (NaN equals NaN, +0 and -0 differ). Slices, maps, funcs and
// channels are compared by reference. Values that cannot be compared either
// way are never the same.
func SameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	switch av := a.(type) {
	case float64:
		return sameFloat(av, b.(float64))
	case float32:
		return sameFloat(float64(av), float64(b.(float32)))
	}
	if ta.Comparable() {
		return compareSafely(a, b)
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	default:
		return false
	}
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b && math.Signbit(a) == math.Signbit(b)
}

// compareSafely compares two values of a comparable type. Interface fields
// holding non-comparable values make == panic; those count as different.
func compareSafely(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

type nanKey struct{ t reflect.Type }

type refKey struct {
	t   reflect.Type
	ptr uintptr
	n   int
}

type uniqueKey struct{ _ byte }

// IdentityKey returns a map key that groups values the way reuse-by-value
// needs: comparable values by value (NaN with NaN, -0 with +0), slices, maps
// and funcs by reference. Values that have neither form of identity get a
// key unique to this call, so they never match anything.
func IdentityKey(v any) any {
	if v == nil {
		return nil
	}
	t := reflect.TypeOf(v)
	switch fv := v.(type) {
	case float64:
		if math.IsNaN(fv) {
			return nanKey{t}
		}
		if fv == 0 {
			return float64(0)
		}
		return fv
	case float32:
		if math.IsNaN(float64(fv)) {
			return nanKey{t}
		}
		if fv == 0 {
			return float32(0)
		}
		return fv
	}
	if t.Comparable() {
		if hashable(v) {
			return v
		}
		return &uniqueKey{}
	}
	rv := reflect.ValueOf(v)
	switch t.Kind() {
	case reflect.Slice:
		return refKey{t: t, ptr: rv.Pointer(), n: rv.Len()}
	case reflect.Map, reflect.Func:
		return refKey{t: t, ptr: rv.Pointer()}
	default:
		return &uniqueKey{}
	}
}

// hashable reports whether v can be used as a map key without panicking.
func hashable(v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = map[any]struct{}{v: {}}
	return true
}
