package meta

import (
	"bytes"
	"fmt"

	"github.com/eaburns/bit"

	"github.com/simonhull/flacdemux/internal/binary"
	"github.com/simonhull/flacdemux/internal/types"
)

// streamInfoSize is the fixed STREAMINFO block length.
const streamInfoSize = 34

// parseStreamInfo decodes the fixed 34-byte STREAMINFO record:
//
//	block_size_min  uint16
//	block_size_max  uint16
//	frame_size_min  uint24
//	frame_size_max  uint24
//	sample_rate     uint20
//	channel_count   uint3  // (number of channels)-1
//	bits_per_sample uint5  // (bits per sample)-1
//	sample_count    uint36
//	md5sum          [16]byte
func parseStreamInfo(sr *binary.SafeReader, offset, blockLength int64) (*types.StreamInfo, error) {
	if blockLength != streamInfoSize {
		return nil, fmt.Errorf("invalid STREAMINFO size: %d (expected %d)", blockLength, streamInfoSize)
	}

	data := make([]byte, streamInfoSize)
	if err := sr.ReadAt(data, offset, "STREAMINFO block"); err != nil {
		return nil, err
	}

	br := bit.NewReader(bytes.NewReader(data))
	fields, err := br.ReadFields(16, 16, 24, 24, 20, 3, 5, 36)
	if err != nil {
		return nil, fmt.Errorf("read STREAMINFO fields: %w", err)
	}

	si := &types.StreamInfo{
		BlockSizeMin:  uint16(fields[0]),
		BlockSizeMax:  uint16(fields[1]),
		FrameSizeMin:  uint32(fields[2]),
		FrameSizeMax:  uint32(fields[3]),
		SampleRate:    uint32(fields[4]),
		Channels:      uint8(fields[5]) + 1,
		BitsPerSample: uint8(fields[6]) + 1,
		TotalSamples:  fields[7],
	}
	copy(si.MD5[:], data[18:34])

	if si.SampleRate == 0 || si.SampleRate > 655350 {
		return nil, fmt.Errorf("invalid sample rate %d (expected 1-655350)", si.SampleRate)
	}
	if si.Channels < 1 || si.Channels > 8 {
		return nil, fmt.Errorf("invalid channel count %d (expected 1-8)", si.Channels)
	}
	if si.BitsPerSample < 4 || si.BitsPerSample > 32 {
		return nil, fmt.Errorf("invalid bits per sample %d (expected 4-32)", si.BitsPerSample)
	}
	if si.BlockSizeMin < 16 {
		return nil, fmt.Errorf("invalid min block size %d (expected >= 16)", si.BlockSizeMin)
	}
	if si.BlockSizeMax < si.BlockSizeMin {
		return nil, fmt.Errorf("max block size %d below min block size %d", si.BlockSizeMax, si.BlockSizeMin)
	}

	return si, nil
}
