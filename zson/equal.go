package zson

import (
	"math"
	"reflect"
)

// Equal reports whether a and b are the same value tree. Floats compare
// bitwise, so NaN equals NaN and 0 differs from -0. Maps compare as mappings,
// ignoring entry order. A nil List equals an empty one. Producer values are
// never equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return isNull(a) && isNull(b)
	}
	switch x := a.(type) {
	case Null:
		return isNull(b)
	case Bool, Int, String:
		return a == b
	case Float:
		y, ok := b.(Float)
		return ok && math.Float64bits(float64(x)) == math.Float64bits(float64(y))
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for k, v := range x.All() {
			w, ok := y.Get(k)
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case ListFunc, MapFunc, StringFunc:
		return false
	}
	return reflect.DeepEqual(a, b)
}

func isNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}
