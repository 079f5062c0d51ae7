package zson

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	m := &Map{}
	assert.Equal(t, 0, m.Len())

	m.Set("b", Int(1))
	m.Set("a", Int(2))
	m.Set("b", Int(3))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"b", "a"}, m.Keys())

	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, Int(3), v)

	_, ok = m.Get("missing")
	assert.False(t, ok)

	m.Set("c", Int(4))
	m.Delete("b")
	assert.Equal(t, []string{"a", "c"}, m.Keys())
	v, ok = m.Get("c")
	require.True(t, ok)
	assert.Equal(t, Int(4), v)
	m.Delete("missing")
	assert.Equal(t, 2, m.Len())

	var keys []string
	for k := range m.All() {
		keys = append(keys, k)
		break
	}
	assert.Equal(t, []string{"a"}, keys)
}

func TestNilMap(t *testing.T) {
	var m *Map
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Keys())
	assert.Nil(t, m.Entries())
	_, ok := m.Get("a")
	assert.False(t, ok)
	m.Delete("a")
	assert.Equal(t, KindMap, m.Kind())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "int", Int(1).Kind().String())
	assert.Equal(t, "map", NewMap().Kind().String())
	assert.Equal(t, "list", ListFunc(nil).Kind().String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil and null", nil, Null{}, true},
		{"ints", Int(1), Int(1), true},
		{"int and float", Int(1), Float(1), false},
		{"nan", Float(math.NaN()), Float(math.NaN()), true},
		{"signed zero", Float(0), Float(math.Copysign(0, -1)), false},
		{"nil and empty list", List(nil), List{}, true},
		{"lists", List{Int(1)}, List{Int(2)}, false},
		{"map order ignored", NewMap(Entry{"a", Int(1)}, Entry{"b", Int(2)}), NewMap(Entry{"b", Int(2)}, Entry{"a", Int(1)}), true},
		{"map values", NewMap(Entry{"a", Int(1)}), NewMap(Entry{"a", Int(2)}), false},
		{"map keys", NewMap(Entry{"a", Int(1)}), NewMap(Entry{"b", Int(1)}), false},
		{"producer", ListFunc(nil), ListFunc(nil), false},
		{"string and null", String(""), Null{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"b": []any{uint16(1), int64(math.MaxInt64), float32(0.5)},
		"a": nil,
	})
	require.NoError(t, err)
	want := NewMap(
		Entry{"a", Null{}},
		Entry{"b", List{Int(1), Float(math.MaxInt64), Float(0.5)}},
	)
	assert.True(t, Equal(want, v))
	assert.Equal(t, []string{"a", "b"}, v.(*Map).Keys())

	same, err := FromAny(Int(3))
	require.NoError(t, err)
	assert.Equal(t, Int(3), same)

	_, err = FromAny([]any{struct{}{}})
	assert.ErrorIs(t, err, ErrEncode)
}

func TestToAnyRejectsProducers(t *testing.T) {
	_, err := ToAny(List{MapFunc(nil)})
	assert.ErrorIs(t, err, ErrEncode)
}
