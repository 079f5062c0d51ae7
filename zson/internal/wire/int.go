package wire

import "encoding/binary"

// Magnitude bounds of the four packed width classes. The fifth class holds any int32.
const (
	bound1 = 1 << 6
	bound2 = 1 << 13
	bound3 = 1 << 20
	bound4 = 1 << 27
)

// IntLen returns the number of bytes, tag included, needed to encode v.
//
// The magnitude is measured as v for v >= 0 and -v-1 otherwise, since an n-bit
// two's complement field holds one more negative value than positive ones:
// -64 fits a single byte while +64 does not.
func IntLen(v int32) int {
	mag := v
	if v < 0 {
		mag = ^v // -v-1 without overflowing on math.MinInt32.
	}
	switch {
	case mag < bound1:
		return 1
	case mag < bound2:
		return 2
	case mag < bound3:
		return 3
	case mag < bound4:
		return 4
	}
	return 5
}

// AppendInt appends the narrowest encoding of v to dst.
func AppendInt(dst []byte, v int32) []byte {
	u := uint32(v)
	switch IntLen(v) {
	case 1:
		return append(dst, byte(u)&0x7f)
	case 2:
		return append(dst, 0x80|byte(u>>8)&0x3f, byte(u))
	case 3:
		return append(dst, 0xc0|byte(u>>16)&0x1f, byte(u>>8), byte(u))
	case 4:
		return append(dst, 0xe0|byte(u>>24)&0x0f, byte(u>>16), byte(u>>8), byte(u))
	}
	dst = append(dst, TagInt32)
	return binary.BigEndian.AppendUint32(dst, u)
}

// IntPayloadLen returns how many bytes follow an integer tag, and false if tag
// is not an integer tag.
func IntPayloadLen(tag byte) (int, bool) {
	switch {
	case tag < 0x80:
		return 0, true
	case tag < 0xc0:
		return 1, true
	case tag < 0xe0:
		return 2, true
	case tag < 0xf0:
		return 3, true
	case tag == TagInt32:
		return 4, true
	}
	return 0, false
}

// DecodeInt reconstructs an integer from its tag and the IntPayloadLen(tag)
// bytes that follow it. The packed classes are left-aligned into a 32-bit word
// and shifted back arithmetically, which restores the sign.
func DecodeInt(tag byte, payload []byte) int32 {
	switch {
	case tag < 0x80:
		return int32(uint32(tag)<<25) >> 25
	case tag < 0xc0:
		return int32(uint32(tag)<<26|uint32(payload[0])<<18) >> 18
	case tag < 0xe0:
		return int32(uint32(tag)<<27|uint32(payload[0])<<19|uint32(payload[1])<<11) >> 11
	case tag < 0xf0:
		return int32(uint32(tag)<<28|uint32(payload[0])<<20|uint32(payload[1])<<12|uint32(payload[2])<<4) >> 4
	}
	return int32(binary.BigEndian.Uint32(payload))
}
