// Package zson implements a compact self-describing binary format for a
// dynamically typed value model: integers, floats, booleans, null, strings,
// ordered lists and string-keyed maps.
//
// Every value starts with a tag byte. Integers carry their width class in the
// tag itself, so small numbers take a single byte:
//
//	0x00-0x7f  1-byte signed integer
//	0x80-0xbf  2-byte signed integer
//	0xc0-0xdf  3-byte signed integer
//	0xe0-0xef  4-byte signed integer
//	0xf0       5-byte signed integer (full int32)
//	0xf1       float32, 4 bytes big-endian
//	0xf2       float64, 8 bytes big-endian
//	0xf3       null
//	0xf4       false
//	0xf5       true
//	0xf6-0xfb  reserved for extensions
//	0xfc       string, terminated by 0xff
//	0xfd       list, terminated by 0xff
//	0xfe       map, terminated by 0xff
//	0xff       terminator
//
// Map entries are written value first, followed by the untagged key bytes and
// a 0xff key terminator:
//
//	{"a": 1}  =>  fe 01 61 ff ff
//
// String bytes use 1 to 3 byte UTF-8 style sequences. Characters above U+FFFF
// are written as two 3-byte surrogate halves and joined again on decode; a
// 4-byte lead byte is rejected with an InvalidSequenceError.
//
// Encoders write one byte at a time to an io.ByteWriter and decoders pull one
// byte at a time from an io.ByteReader, so neither needs the whole message in
// memory. Marshal and Unmarshal cover the common in-memory case:
//
//	data, err := zson.Marshal(map[string]any{"id": 7, "tags": []any{"a", "b"}})
//	v, err := zson.Unmarshal(data)
//
// Encoders and Decoders are not safe for concurrent use.
package zson
