package encoder

import (
	"fmt"
	"math"
	"slices"

	"github.com/holmberd/go-zson/zson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToProto converts a zson value tree into a google.protobuf.Value. Ints become
// numbers and map order is lost. Producer and extension values cannot be
// converted.
func ToProto(v zson.Value) (*structpb.Value, error) {
	switch x := v.(type) {
	case nil, zson.Null:
		return structpb.NewNullValue(), nil
	case zson.Bool:
		return structpb.NewBoolValue(bool(x)), nil
	case zson.Int:
		return structpb.NewNumberValue(float64(x)), nil
	case zson.Float:
		return structpb.NewNumberValue(float64(x)), nil
	case zson.String:
		return structpb.NewStringValue(string(x)), nil
	case zson.List:
		list := &structpb.ListValue{Values: make([]*structpb.Value, len(x))}
		for i, elem := range x {
			pv, err := ToProto(elem)
			if err != nil {
				return nil, err
			}
			list.Values[i] = pv
		}
		return structpb.NewListValue(list), nil
	case *zson.Map:
		s := &structpb.Struct{Fields: make(map[string]*structpb.Value, x.Len())}
		for k, elem := range x.All() {
			pv, err := ToProto(elem)
			if err != nil {
				return nil, err
			}
			s.Fields[k] = pv
		}
		return structpb.NewStructValue(s), nil
	}
	return nil, &zson.EncodeError{Type: fmt.Sprintf("%T", v)}
}

// FromProto converts a google.protobuf.Value into a zson value tree. Numbers
// that are exact int32 values become Ints. Struct fields are ordered by key.
func FromProto(pv *structpb.Value) (zson.Value, error) {
	switch k := pv.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return zson.Null{}, nil
	case *structpb.Value_BoolValue:
		return zson.Bool(k.BoolValue), nil
	case *structpb.Value_NumberValue:
		return fromNumber(k.NumberValue), nil
	case *structpb.Value_StringValue:
		return zson.String(k.StringValue), nil
	case *structpb.Value_ListValue:
		values := k.ListValue.GetValues()
		list := make(zson.List, len(values))
		for i, elem := range values {
			v, err := FromProto(elem)
			if err != nil {
				return nil, err
			}
			list[i] = v
		}
		return list, nil
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		keys := make([]string, 0, len(fields))
		for key := range fields {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		m := &zson.Map{}
		for _, key := range keys {
			v, err := FromProto(fields[key])
			if err != nil {
				return nil, err
			}
			m.Set(key, v)
		}
		return m, nil
	}
	return nil, fmt.Errorf("encoder: unknown protobuf value kind %T", pv.GetKind())
}

func fromNumber(f float64) zson.Value {
	if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
		return zson.Int(f)
	}
	return zson.Float(f)
}
