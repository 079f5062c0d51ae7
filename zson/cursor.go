package zson

import (
	"errors"
	"fmt"
	"io"
)

// SourceFunc adapts a function yielding single bytes to io.ByteReader. The
// function returns io.EOF once the source is exhausted.
type SourceFunc func() (byte, error)

func (f SourceFunc) ReadByte() (byte, error) { return f() }

// cursor reads single bytes from a source with one byte of pushback.
type cursor struct {
	r        io.ByteReader
	off      int64 // Bytes shifted so far.
	next     byte
	buffered bool
}

// shift consumes and returns the next byte, starting with the pushback byte.
func (c *cursor) shift() (byte, error) {
	if c.buffered {
		c.buffered = false
		c.off++
		return c.next, nil
	}
	b, err := c.r.ReadByte()
	if err != nil {
		return 0, readError(err)
	}
	c.off++
	return b, nil
}

// peek returns the next byte without consuming it. Repeated calls return the
// same byte.
func (c *cursor) peek() (byte, error) {
	if c.buffered {
		return c.next, nil
	}
	b, err := c.r.ReadByte()
	if err != nil {
		return 0, readError(err)
	}
	c.next, c.buffered = b, true
	return b, nil
}

// read fills p from the source.
func (c *cursor) read(p []byte) error {
	for i := range p {
		b, err := c.shift()
		if err != nil {
			return err
		}
		p[i] = b
	}
	return nil
}

func readError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrEndOfStream
	}
	return fmt.Errorf("zson: read: %w", err)
}
