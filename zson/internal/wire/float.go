package wire

import (
	"encoding/binary"
	"math"
)

// AsInt32 reports whether f is exactly representable as an int32. Such numbers
// are always written with the integer codec. Negative zero maps to 0.
func AsInt32(f float64) (int32, bool) {
	if f < math.MinInt32 || f > math.MaxInt32 || f != math.Trunc(f) {
		return 0, false // NaN fails the Trunc comparison.
	}
	return int32(f), true
}

// AppendFloat32 appends TagFloat32 and the single precision bits of f.
func AppendFloat32(dst []byte, f float32) []byte {
	dst = append(dst, TagFloat32)
	return binary.BigEndian.AppendUint32(dst, math.Float32bits(f))
}

// AppendFloat64 appends TagFloat64 and the double precision bits of f.
func AppendFloat64(dst []byte, f float64) []byte {
	dst = append(dst, TagFloat64)
	return binary.BigEndian.AppendUint64(dst, math.Float64bits(f))
}

// DecodeFloat32 decodes the 4 payload bytes of a TagFloat32 token.
func DecodeFloat32(payload []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(payload))
}

// DecodeFloat64 decodes the 8 payload bytes of a TagFloat64 token.
func DecodeFloat64(payload []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(payload))
}
