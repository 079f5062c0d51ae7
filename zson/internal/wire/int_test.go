package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var intVectors = []struct {
	name    string
	value   int32
	encoded []byte
}{
	{"zero", 0, []byte{0x00}},
	{"one", 1, []byte{0x01}},
	{"max 1-byte", 63, []byte{0x3f}},
	{"minus one", -1, []byte{0x7f}},
	{"min 1-byte", -64, []byte{0x40}},

	{"min positive 2-byte", 64, []byte{0x80, 0x40}},
	{"max 2-byte", 8191, []byte{0x9f, 0xff}},
	{"max negative 2-byte", -65, []byte{0xbf, 0xbf}},
	{"min 2-byte", -8192, []byte{0xa0, 0x00}},

	{"min positive 3-byte", 8192, []byte{0xc0, 0x20, 0x00}},
	{"max 3-byte", 1048575, []byte{0xcf, 0xff, 0xff}},
	{"max negative 3-byte", -8193, []byte{0xdf, 0xdf, 0xff}},
	{"min 3-byte", -1048576, []byte{0xd0, 0x00, 0x00}},

	{"min positive 4-byte", 1048576, []byte{0xe0, 0x10, 0x00, 0x00}},
	{"max 4-byte", 134217727, []byte{0xe7, 0xff, 0xff, 0xff}},
	{"max negative 4-byte", -1048577, []byte{0xef, 0xef, 0xff, 0xff}},
	{"min 4-byte", -134217728, []byte{0xe8, 0x00, 0x00, 0x00}},

	{"min positive 5-byte", 134217728, []byte{0xf0, 0x08, 0x00, 0x00, 0x00}},
	{"max int32", math.MaxInt32, []byte{0xf0, 0x7f, 0xff, 0xff, 0xff}},
	{"max negative 5-byte", -134217729, []byte{0xf0, 0xf7, 0xff, 0xff, 0xff}},
	{"min int32", math.MinInt32, []byte{0xf0, 0x80, 0x00, 0x00, 0x00}},
}

func TestAppendInt(t *testing.T) {
	for _, tt := range intVectors {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendInt(nil, tt.value)
			assert.Equal(t, tt.encoded, got)
			assert.Equal(t, len(tt.encoded), IntLen(tt.value))
		})
	}
}

func TestDecodeInt(t *testing.T) {
	for _, tt := range intVectors {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := IntPayloadLen(tt.encoded[0])
			require.True(t, ok)
			require.Equal(t, len(tt.encoded)-1, n)
			assert.Equal(t, tt.value, DecodeInt(tt.encoded[0], tt.encoded[1:]))
		})
	}
}

func TestIntPayloadLenRejectsNonIntegerTags(t *testing.T) {
	for tag := int(TagFloat32); tag <= 0xff; tag++ {
		_, ok := IntPayloadLen(byte(tag))
		assert.False(t, ok, "tag 0x%02x", tag)
	}
}

func TestIntRoundTripSweep(t *testing.T) {
	// Walk each width-class edge and its neighbours.
	edges := []int32{0, bound1, bound2, bound3, bound4}
	for _, edge := range edges {
		for _, v := range []int32{edge - 1, edge, edge + 1, -edge - 1, -edge, -edge + 1} {
			enc := AppendInt(nil, v)
			assert.Equal(t, v, DecodeInt(enc[0], enc[1:]), "value %d", v)
		}
	}
}
