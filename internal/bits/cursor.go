// Package bits provides bit-level reading over an immutable byte slice.
//
// FLAC frame headers pack sub-byte-width codes (14-bit sync, 4-bit block
// size and sample rate codes, 3-bit bit depth code), so the cursor tracks a
// bit position across byte boundaries. Unlike a stream-based bit reader, the
// cursor also exposes its byte position, which frame parsing needs to locate
// the CRC-8 window over a variable-length header.
package bits

import (
	"errors"
	"fmt"
)

// ErrShortBuffer is returned when a read would pass the end of the buffer.
// Callers scanning untrusted data treat it as "not a frame header here".
var ErrShortBuffer = errors.New("bits: read past end of buffer")

// Cursor reads big-endian bit fields from a byte slice. The slice is never
// modified and never reallocated; the zero-cost copy semantics make cursors
// safe to hand out per probe.
type Cursor struct {
	buf []byte
	pos int  // byte position of the next unread bit
	bit uint // 0-7, bit offset within buf[pos]
}

// NewCursor returns a cursor positioned at the first bit of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Read reads the next n bits (1-64) and returns them right-aligned.
func (c *Cursor) Read(n uint) (uint64, error) {
	if n == 0 || n > 64 {
		return 0, fmt.Errorf("bits: invalid read width %d", n)
	}

	var v uint64
	for n > 0 {
		if c.pos >= len(c.buf) {
			return 0, ErrShortBuffer
		}

		take := 8 - c.bit
		if take > n {
			take = n
		}

		b := c.buf[c.pos] << c.bit >> (8 - take)
		v = v<<take | uint64(b)

		c.bit += take
		if c.bit == 8 {
			c.bit = 0
			c.pos++
		}
		n -= take
	}

	return v, nil
}

// ReadBit reads a single bit.
func (c *Cursor) ReadBit() (uint8, error) {
	v, err := c.Read(1)
	return uint8(v), err
}

// Aligned reports whether the cursor sits on a byte boundary.
func (c *Cursor) Aligned() bool {
	return c.bit == 0
}

// BytePos returns the byte position of the next unread bit. Only meaningful
// for byte-accurate bookkeeping when the cursor is aligned.
func (c *Cursor) BytePos() int {
	return c.pos
}

// SkipBytes advances the cursor by n whole bytes. The cursor must be
// byte-aligned.
func (c *Cursor) SkipBytes(n int) error {
	if c.bit != 0 {
		return fmt.Errorf("bits: SkipBytes on unaligned cursor (%d buffered bits)", c.bit)
	}
	if c.pos+n > len(c.buf) {
		return ErrShortBuffer
	}
	c.pos += n
	return nil
}

// Remaining returns the number of whole unread bytes left in the buffer.
func (c *Cursor) Remaining() int {
	r := len(c.buf) - c.pos
	if c.bit > 0 {
		r--
	}
	if r < 0 {
		return 0
	}
	return r
}
