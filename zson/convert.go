package zson

import (
	"fmt"
	"math"
)

// FromAny converts a plain Go value into a Value tree. It accepts the same
// Go types as Encoder.Encode; Value arguments are returned unchanged. Integers
// outside the int32 range become Floats. Go maps become Maps with sorted keys.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return fromInt64(int64(x)), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return fromInt64(x), nil
	case uint:
		return fromUint64(uint64(x)), nil
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return fromUint64(uint64(x)), nil
	case uint64:
		return fromUint64(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case []Value:
		return List(x), nil
	case []any:
		list := make(List, len(x))
		for i, elem := range x {
			v, err := FromAny(elem)
			if err != nil {
				return nil, err
			}
			list[i] = v
		}
		return list, nil
	case map[string]Value:
		m := &Map{}
		for _, k := range sortedKeys(x) {
			m.Set(k, x[k])
		}
		return m, nil
	case map[string]any:
		m := &Map{}
		for _, k := range sortedKeys(x) {
			v, err := FromAny(x[k])
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	}
	return nil, &EncodeError{Type: fmt.Sprintf("%T", v)}
}

func fromInt64(v int64) Value {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return Int(v)
	}
	return Float(v)
}

func fromUint64(v uint64) Value {
	if v <= math.MaxInt32 {
		return Int(v)
	}
	return Float(v)
}

// ToAny converts a Value tree into plain Go values: nil, bool, int64, float64,
// string, []any and map[string]any. Map order is lost. Extension values are
// returned unchanged. Producer values cannot be converted and yield an
// *EncodeError.
func ToAny(v Value) (any, error) {
	switch x := v.(type) {
	case nil, Null:
		return nil, nil
	case Bool:
		return bool(x), nil
	case Int:
		return int64(x), nil
	case Float:
		return float64(x), nil
	case String:
		return string(x), nil
	case List:
		out := make([]any, len(x))
		for i, elem := range x {
			a, err := ToAny(elem)
			if err != nil {
				return nil, err
			}
			out[i] = a
		}
		return out, nil
	case *Map:
		out := make(map[string]any, x.Len())
		for k, elem := range x.All() {
			a, err := ToAny(elem)
			if err != nil {
				return nil, err
			}
			out[k] = a
		}
		return out, nil
	case ListFunc, MapFunc, StringFunc:
		return nil, &EncodeError{Type: fmt.Sprintf("%T", v)}
	}
	return v, nil
}
