// Package wire holds the byte-level tag table and the leaf scalar codecs of the
// zson format. It knows nothing about values or streams; callers feed it bytes.
package wire

// Tag bytes. Tags below TagInt32 are integers whose width class is encoded in
// the high bits of the tag itself.
const (
	TagInt32   byte = 0xf0 // 4 big-endian payload bytes.
	TagFloat32 byte = 0xf1 // 4 big-endian IEEE-754 bytes.
	TagFloat64 byte = 0xf2 // 8 big-endian IEEE-754 bytes.
	TagNull    byte = 0xf3
	TagFalse   byte = 0xf4
	TagTrue    byte = 0xf5
	TagExtMin  byte = 0xf6 // First tag reserved for caller-defined extensions.
	TagExtMax  byte = 0xfb // Last tag reserved for caller-defined extensions.
	TagString  byte = 0xfc
	TagList    byte = 0xfd
	TagMap     byte = 0xfe
	Terminator byte = 0xff // Ends strings, lists, maps and map keys. Never a leading tag.
)

// IsExtension reports whether tag lies in the reserved extension range.
func IsExtension(tag byte) bool {
	return tag >= TagExtMin && tag <= TagExtMax
}
