package frame

import (
	"github.com/simonhull/flacdemux/internal/crc"
	"github.com/simonhull/flacdemux/internal/types"
)

// Scan searches buf for the first byte offset holding a valid,
// CRC-8-verified frame header. It returns the decoded header, the offset of
// its first byte relative to buf, and whether a header was found.
//
// Candidates that fail to decode or fail their CRC are skipped silently;
// scanning non-frame-aligned byte ranges is the normal case during
// bisection probes.
func Scan(buf []byte, si *types.StreamInfo) (*types.FrameHeader, int, bool) {
	for i := 0; i+MinHeaderSize <= len(buf); i++ {
		// Cheap sync pre-check before attempting a full decode: the first
		// byte is 0xFF and the next six bits are 111110.
		if buf[i] != 0xFF || buf[i+1]&0xFC != 0xF8 {
			continue
		}

		h, err := ParseHeader(buf[i:], si)
		if err != nil {
			continue
		}
		return h, i, true
	}

	return nil, 0, false
}

// VerifyBody reports whether data, a complete frame from its sync byte
// through its trailing CRC-16, passes the whole-frame checksum. Used to
// confirm that a landing point is a real frame boundary and not a byte
// sequence that merely resembles a sync code.
func VerifyBody(data []byte) bool {
	if len(data) < MinHeaderSize+2 {
		return false
	}

	stored := uint16(data[len(data)-2])<<8 | uint16(data[len(data)-1])
	return crc.Checksum16(data[:len(data)-2]) == stored
}

// AppendCRC16 appends the whole-frame CRC-16 of data to data and returns
// the extended slice. Test fixtures and frame synthesis use it to produce
// frames that VerifyBody accepts.
func AppendCRC16(data []byte) []byte {
	sum := crc.Checksum16(data)
	return append(data, byte(sum>>8), byte(sum))
}
