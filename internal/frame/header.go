// Package frame decodes FLAC audio frame headers.
//
// Frame headers are bit-packed and not byte-aligned internally; fields are
// read through a bits.Cursor over a probe buffer. A single bad candidate is
// never fatal: scanning arbitrary byte ranges for sync codes is expected to
// produce false positives, and the error taxonomy reflects that.
package frame

import (
	"errors"

	"github.com/simonhull/flacdemux/internal/bits"
	"github.com/simonhull/flacdemux/internal/crc"
	"github.com/simonhull/flacdemux/internal/types"
)

var (
	// ErrCRCMismatch reports a header that decoded cleanly but failed its
	// CRC-8 check. The candidate offset is rejected; scanning continues.
	ErrCRCMismatch = errors.New("frame: header CRC-8 mismatch")

	// ErrMalformed reports a candidate that is not a frame header at all:
	// missing sync code, reserved code values, invalid coded number, or
	// insufficient data to finish decoding.
	ErrMalformed = errors.New("frame: malformed header")
)

// MinHeaderSize is the smallest possible encoded header: two sync/flag
// bytes, one block-size/sample-rate byte, one channel/depth byte, a one-byte
// coded number and the CRC-8 byte.
const MinHeaderSize = 6

// syncWord is the 14-bit frame sync pattern 0b11111111111110.
const syncWord = 0x3FFE

// blockSizes maps the 4-bit block size code to a sample count. 0 marks a
// reserved or "extra bytes follow" code handled separately.
var blockSizes = [16]uint32{
	0, 192, 576, 1152, 2304, 4608, 0, 0,
	256, 512, 1024, 2048, 4096, 8192, 16384, 32768,
}

// sampleRates maps the 4-bit sample rate code to a rate in Hz. 0 marks the
// "from STREAMINFO", "extra bytes follow" and invalid codes.
var sampleRates = [16]uint32{
	0, 88200, 176400, 192000, 8000, 16000, 22050, 24000,
	32000, 44100, 48000, 96000, 0, 0, 0, 0,
}

// bitDepths maps the 3-bit bit depth code. 0 marks "from STREAMINFO" and
// the reserved code 3.
var bitDepths = [8]uint8{0, 8, 12, 0, 16, 20, 24, 32}

// ParseHeader decodes the frame header at the start of buf and verifies its
// CRC-8. si supplies stream-level defaults for the "from STREAMINFO" codes
// and the constant block size used to convert frame numbers to sample
// numbers on fixed-blocksize streams.
//
// It returns ErrMalformed or ErrCRCMismatch for rejected candidates; any
// other error is impossible by construction.
func ParseHeader(buf []byte, si *types.StreamInfo) (*types.FrameHeader, error) {
	if len(buf) < MinHeaderSize {
		return nil, ErrMalformed
	}

	c := bits.NewCursor(buf)

	sync, err := c.Read(14)
	if err != nil || sync != syncWord {
		return nil, ErrMalformed
	}

	// Reserved bit, must be 0.
	if rsv, err := c.ReadBit(); err != nil || rsv != 0 {
		return nil, ErrMalformed
	}

	blocking, err := c.ReadBit()
	if err != nil {
		return nil, ErrMalformed
	}

	bsCode, err := c.Read(4)
	if err != nil {
		return nil, ErrMalformed
	}
	srCode, err := c.Read(4)
	if err != nil {
		return nil, ErrMalformed
	}
	chCode, err := c.Read(4)
	if err != nil {
		return nil, ErrMalformed
	}
	bpsCode, err := c.Read(3)
	if err != nil {
		return nil, ErrMalformed
	}
	if rsv, err := c.ReadBit(); err != nil || rsv != 0 {
		return nil, ErrMalformed
	}

	// Reserved codes reject the candidate before any further reads.
	if bsCode == 0 || srCode == 15 || chCode > 10 || bpsCode == 3 {
		return nil, ErrMalformed
	}

	h := &types.FrameHeader{
		ChannelAssignment: uint8(chCode),
		VariableBlockSize: blocking == 1,
	}

	if chCode < 8 {
		h.Channels = uint8(chCode) + 1
	} else {
		// Left/side, right/side and mid/side are all stereo.
		h.Channels = 2
	}

	h.BitsPerSample = bitDepths[bpsCode]
	if h.BitsPerSample == 0 {
		h.BitsPerSample = si.BitsPerSample
	}

	// Coded frame/sample number, UTF-8 style, up to 36 bits over 7 bytes.
	// The cursor is byte-aligned here.
	number, n, ok := decodeCodedNumber(buf[c.BytePos():])
	if !ok {
		return nil, ErrMalformed
	}
	if err := c.SkipBytes(n); err != nil {
		return nil, ErrMalformed
	}
	h.Number = number

	// Extended block size, 8 or 16 bits storing (size - 1).
	switch bsCode {
	case 6:
		v, err := c.Read(8)
		if err != nil {
			return nil, ErrMalformed
		}
		h.BlockSize = uint32(v) + 1
	case 7:
		v, err := c.Read(16)
		if err != nil {
			return nil, ErrMalformed
		}
		h.BlockSize = uint32(v) + 1
	default:
		h.BlockSize = blockSizes[bsCode]
	}

	// Extended sample rate.
	switch srCode {
	case 0:
		h.SampleRate = si.SampleRate
	case 12:
		v, err := c.Read(8)
		if err != nil {
			return nil, ErrMalformed
		}
		h.SampleRate = uint32(v) * 1000
	case 13:
		v, err := c.Read(16)
		if err != nil {
			return nil, ErrMalformed
		}
		h.SampleRate = uint32(v)
	case 14:
		v, err := c.Read(16)
		if err != nil {
			return nil, ErrMalformed
		}
		h.SampleRate = uint32(v) * 10
	default:
		h.SampleRate = sampleRates[srCode]
	}

	// CRC-8 covers the sync code through the byte before the CRC field.
	crcPos := c.BytePos()
	if crcPos >= len(buf) {
		return nil, ErrMalformed
	}
	h.CRC8 = buf[crcPos]
	h.HeaderSize = crcPos + 1

	if crc.Checksum8(buf[:crcPos]) != h.CRC8 {
		return nil, ErrCRCMismatch
	}

	if h.VariableBlockSize {
		h.FirstSample = h.Number
	} else {
		// Fixed-blocksize streams number frames, not samples. Every frame
		// but the last carries the stream's constant block size.
		h.FirstSample = h.Number * uint64(si.BlockSizeMax)
	}

	return h, nil
}

// decodeCodedNumber decodes the UTF-8-style variable-length number used for
// frame/sample numbers. Unlike real UTF-8 it extends to 7 bytes to cover 36
// bits. Returns the value, the encoded length, and whether decoding
// succeeded.
func decodeCodedNumber(buf []byte) (uint64, int, bool) {
	if len(buf) == 0 {
		return 0, 0, false
	}

	b0 := buf[0]
	if b0 < 0x80 {
		return uint64(b0), 1, true
	}

	// Count leading ones to get the total encoded length.
	var n int
	for mask := uint8(0x80); mask != 0 && b0&mask != 0; mask >>= 1 {
		n++
	}
	if n < 2 || n > 7 || len(buf) < n {
		return 0, 0, false
	}

	v := uint64(b0 & (0x7F >> n))
	for i := 1; i < n; i++ {
		if buf[i]&0xC0 != 0x80 {
			return 0, 0, false
		}
		v = v<<6 | uint64(buf[i]&0x3F)
	}

	return v, n, true
}
