// Package crc implements the two checksums FLAC uses for frame integrity:
// CRC-8 (polynomial 0x07, initial value 0) over frame header bytes, and
// CRC-16 (polynomial 0x8005, initial value 0) over whole frames.
//
// Both are table-driven; tables are built once at package init.
package crc

const (
	poly8  = 0x07
	poly16 = 0x8005
)

var (
	table8  [256]uint8
	table16 [256]uint16
)

func init() {
	for i := range table8 {
		r := uint8(i)
		for j := 0; j < 8; j++ {
			if r&0x80 != 0 {
				r = r<<1 ^ poly8
			} else {
				r <<= 1
			}
		}
		table8[i] = r
	}

	for i := range table16 {
		r := uint16(i) << 8
		for j := 0; j < 8; j++ {
			if r&0x8000 != 0 {
				r = r<<1 ^ poly16
			} else {
				r <<= 1
			}
		}
		table16[i] = r
	}
}

// Update8 folds p into an existing CRC-8 value.
func Update8(crc uint8, p []byte) uint8 {
	for _, b := range p {
		crc = table8[crc^b]
	}
	return crc
}

// Checksum8 computes the CRC-8 of p with initial value 0.
func Checksum8(p []byte) uint8 {
	return Update8(0, p)
}

// Update16 folds p into an existing CRC-16 value.
func Update16(crc uint16, p []byte) uint16 {
	for _, b := range p {
		crc = table16[uint8(crc>>8)^b] ^ crc<<8
	}
	return crc
}

// Checksum16 computes the CRC-16 of p with initial value 0.
func Checksum16(p []byte) uint16 {
	return Update16(0, p)
}
