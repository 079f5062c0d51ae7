package wire

import (
	"unicode"
	"unicode/utf16"
)

// String payloads are sequences of 16-bit code units, each written as a 1, 2 or
// 3 byte UTF-8 style sequence. Runes above U+FFFF travel as their UTF-16
// surrogate halves, 3 bytes each. No byte of such a sequence is ever 0xff.

// AppendUnit appends the encoding of a single 16-bit code unit.
func AppendUnit(dst []byte, c uint16) []byte {
	switch {
	case c < 0x80:
		return append(dst, byte(c))
	case c < 0x800:
		return append(dst, 0xc0|byte(c>>6)&0x1f, 0x80|byte(c)&0x3f)
	}
	return append(dst, 0xe0|byte(c>>12)&0x0f, 0x80|byte(c>>6)&0x3f, 0x80|byte(c)&0x3f)
}

// AppendRune appends the encoding of r, splitting it into a surrogate pair
// when it lies outside the Basic Multilingual Plane. Values that are not
// runes are written as U+FFFD.
func AppendRune(dst []byte, r rune) []byte {
	switch {
	case r < 0 || r > unicode.MaxRune:
		return AppendUnit(dst, unicode.ReplacementChar)
	case r < 0x10000:
		return AppendUnit(dst, uint16(r))
	}
	hi, lo := utf16.EncodeRune(r)
	dst = AppendUnit(dst, uint16(hi))
	return AppendUnit(dst, uint16(lo))
}

// AppendString appends the payload of s without tag or terminator. Invalid
// UTF-8 in s is written as U+FFFD.
func AppendString(dst []byte, s string) []byte {
	for _, r := range s {
		dst = AppendRune(dst, r)
	}
	return dst
}

// SequenceLen returns the total length of the sequence introduced by lead, and
// false for lead bytes of 4-byte (or longer) sequences, which the format does
// not support.
func SequenceLen(lead byte) (int, bool) {
	switch {
	case lead < 0x80:
		return 1, true
	case lead < 0xe0:
		return 2, true
	case lead < 0xf0:
		return 3, true
	}
	return 0, false
}

// IsContinuation reports whether b may follow a lead byte.
func IsContinuation(b byte) bool {
	return b&0xc0 == 0x80
}

// DecodeUnit rebuilds the code unit of a sequence from its lead byte and its
// continuation bytes. len(cont) must be SequenceLen(lead)-1.
func DecodeUnit(lead byte, cont []byte) uint16 {
	switch len(cont) {
	case 0:
		return uint16(lead)
	case 1:
		return uint16(lead&0x1f)<<6 | uint16(cont[0]&0x3f)
	}
	return uint16(lead&0x0f)<<12 | uint16(cont[0]&0x3f)<<6 | uint16(cont[1]&0x3f)
}
