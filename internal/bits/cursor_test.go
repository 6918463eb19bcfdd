package bits

import (
	"errors"
	"testing"
)

func TestCursor_ReadAcrossByteBoundaries(t *testing.T) {
	// 0xAC44 spread over a 14-bit field followed by two 1-bit fields:
	// 1010 1100 0100 01 | 0 | 0
	c := NewCursor([]byte{0xAC, 0x44})

	v, err := c.Read(14)
	if err != nil {
		t.Fatalf("Read(14) failed: %v", err)
	}
	if v != 0x2B11 {
		t.Errorf("Read(14) = 0x%04x, want 0x2B11", v)
	}

	b, err := c.ReadBit()
	if err != nil {
		t.Fatalf("ReadBit failed: %v", err)
	}
	if b != 0 {
		t.Errorf("ReadBit = %d, want 0", b)
	}

	b, err = c.ReadBit()
	if err != nil {
		t.Fatalf("ReadBit failed: %v", err)
	}
	if b != 0 {
		t.Errorf("ReadBit = %d, want 0", b)
	}

	if !c.Aligned() {
		t.Error("cursor should be aligned after 16 bits")
	}
	if c.BytePos() != 2 {
		t.Errorf("BytePos = %d, want 2", c.BytePos())
	}
}

func TestCursor_ReadWideField(t *testing.T) {
	// 36-bit field: the STREAMINFO total-samples width.
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xF0}
	c := NewCursor(buf)

	v, err := c.Read(36)
	if err != nil {
		t.Fatalf("Read(36) failed: %v", err)
	}
	if v != 0xFFFFFFFFF {
		t.Errorf("Read(36) = 0x%x, want 0xFFFFFFFFF", v)
	}
}

func TestCursor_SequentialFields(t *testing.T) {
	// 4+4+3+1+4 bits packed into two bytes: 1100 0101 | 101 1 0110
	c := NewCursor([]byte{0xC5, 0xB6})

	fields := []struct {
		width uint
		want  uint64
	}{
		{4, 0xC},
		{4, 0x5},
		{3, 0b101},
		{1, 1},
		{4, 0x6},
	}

	for i, f := range fields {
		v, err := c.Read(f.width)
		if err != nil {
			t.Fatalf("field %d: Read(%d) failed: %v", i, f.width, err)
		}
		if v != f.want {
			t.Errorf("field %d: Read(%d) = 0x%x, want 0x%x", i, f.width, v, f.want)
		}
	}
}

func TestCursor_Exhaustion(t *testing.T) {
	c := NewCursor([]byte{0xAB})

	if _, err := c.Read(8); err != nil {
		t.Fatalf("Read(8) failed: %v", err)
	}

	if _, err := c.Read(1); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer, got %v", err)
	}
}

func TestCursor_ExhaustionMidRead(t *testing.T) {
	c := NewCursor([]byte{0xAB, 0xCD})

	if _, err := c.Read(12); err != nil {
		t.Fatalf("Read(12) failed: %v", err)
	}

	// 4 bits remain; asking for 8 must fail cleanly.
	if _, err := c.Read(8); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer, got %v", err)
	}
}

func TestCursor_InvalidWidth(t *testing.T) {
	c := NewCursor([]byte{0x00})

	if _, err := c.Read(0); err == nil {
		t.Error("Read(0) should fail")
	}
	if _, err := c.Read(65); err == nil {
		t.Error("Read(65) should fail")
	}
}

func TestCursor_SkipBytes(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03})

	if err := c.SkipBytes(2); err != nil {
		t.Fatalf("SkipBytes(2) failed: %v", err)
	}

	v, err := c.Read(8)
	if err != nil {
		t.Fatalf("Read(8) failed: %v", err)
	}
	if v != 0x03 {
		t.Errorf("Read(8) = 0x%02x, want 0x03", v)
	}

	if err := c.SkipBytes(1); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("expected ErrShortBuffer, got %v", err)
	}
}

func TestCursor_SkipBytesUnaligned(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02})

	if _, err := c.Read(3); err != nil {
		t.Fatalf("Read(3) failed: %v", err)
	}
	if err := c.SkipBytes(1); err == nil {
		t.Error("SkipBytes on unaligned cursor should fail")
	}
}

func TestCursor_Remaining(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03})

	if got := c.Remaining(); got != 3 {
		t.Errorf("Remaining = %d, want 3", got)
	}

	c.Read(4)
	if got := c.Remaining(); got != 2 {
		t.Errorf("Remaining after 4 bits = %d, want 2", got)
	}

	c.Read(20)
	if got := c.Remaining(); got != 0 {
		t.Errorf("Remaining after 24 bits = %d, want 0", got)
	}
}
