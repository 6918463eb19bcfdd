// Package types defines the data model shared between the demuxer's
// internal packages and re-exported through the public API.
package types

import "time"

// StreamInfo describes the basic properties of a FLAC stream, parsed from
// the mandatory STREAMINFO metadata block. Immutable after parsing.
type StreamInfo struct {
	// Minimum and maximum block size (in samples) used in the stream.
	// Equal values imply a fixed-blocksize stream.
	BlockSizeMin uint16
	BlockSizeMax uint16

	// Minimum and maximum frame size (in bytes). 0 means unknown.
	FrameSizeMin uint32
	FrameSizeMax uint32

	// Sample rate in Hz. Always > 0 for a valid stream.
	SampleRate uint32

	// Number of channels (1-8).
	Channels uint8

	// Bits per sample (4-32).
	BitsPerSample uint8

	// Total number of inter-channel samples. 0 means unknown.
	TotalSamples uint64

	// MD5 signature of the unencoded audio data.
	MD5 [16]byte

	// AudioDataOffset is the byte offset of the first frame header,
	// recorded after walking the metadata block chain. SEEKTABLE byte
	// offsets are relative to this position.
	AudioDataOffset int64
}

// FixedBlockSize reports whether every frame (except possibly the last)
// carries the same number of samples.
func (si *StreamInfo) FixedBlockSize() bool {
	return si.BlockSizeMin == si.BlockSizeMax && si.BlockSizeMin > 0
}

// Duration returns the total playback time, or 0 when TotalSamples is unknown.
func (si *StreamInfo) Duration() time.Duration {
	if si.SampleRate == 0 {
		return 0
	}
	seconds := float64(si.TotalSamples) / float64(si.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// SeekPoint is one usable SEEKTABLE entry. Placeholder entries are filtered
// out during parsing and never appear here.
type SeekPoint struct {
	// Sample number of the first sample in the target frame.
	Sample uint64

	// Offset in bytes from the first frame header to the target frame's header.
	Offset uint64

	// Number of samples in the target frame.
	FrameSamples uint16
}

// SeekTable holds the usable seek points of a stream, ordered ascending by
// sample number.
type SeekTable struct {
	Points []SeekPoint
}

// CueSheet represents a FLAC CUESHEET metadata block. The block is advisory;
// inconsistencies degrade to warnings rather than parse failures.
type CueSheet struct {
	MediaCatalogNumber string
	LeadIn             uint64
	IsCD               bool
	Tracks             []CueTrack
}

// CueTrack is a track record in a cue sheet.
type CueTrack struct {
	Offset      uint64 // samples from start of audio
	Number      byte   // 1-99 for normal tracks, 170 for lead-out
	ISRC        string
	IsAudio     bool
	PreEmphasis bool
	Indices     []CueIndex
}

// LeadOutTrackNumber marks the cue sheet lead-out track.
const LeadOutTrackNumber = 170

// CueIndex is an index point within a cue sheet track.
type CueIndex struct {
	Offset uint64 // samples from start of track
	Number byte
}

// FrameHeader holds the decoded bit-packed fields of a single audio frame
// header. Parsed fresh per probe; never persisted beyond validation.
type FrameHeader struct {
	// BlockSize is the number of samples in this frame.
	BlockSize uint32

	// SampleRate in Hz, resolved against STREAMINFO when the header uses
	// the "from STREAMINFO" code.
	SampleRate uint32

	// ChannelAssignment is the raw 4-bit code (0-7 independent channels,
	// 8 left/side, 9 right/side, 10 mid/side).
	ChannelAssignment uint8

	// Channels is the channel count implied by ChannelAssignment.
	Channels uint8

	// BitsPerSample, resolved against STREAMINFO when coded as 0.
	BitsPerSample uint8

	// VariableBlockSize reports the frame's blocking strategy bit.
	VariableBlockSize bool

	// Number is the raw coded value: a frame number for fixed-blocksize
	// streams, a sample number for variable-blocksize streams.
	Number uint64

	// FirstSample is the absolute sample index of the frame's first sample.
	FirstSample uint64

	// CRC8 is the header checksum as stored in the stream.
	CRC8 uint8

	// HeaderSize is the encoded header length in bytes, including the
	// trailing CRC-8 byte.
	HeaderSize int
}

// Frame is a demuxed audio frame: its decoded header plus the raw frame
// bytes (header through trailing CRC-16), undecoded.
type Frame struct {
	Header FrameHeader

	// Data holds the complete frame as stored in the stream.
	Data []byte

	// Offset is the absolute byte offset of the frame's first byte.
	Offset int64
}

// Accuracy describes how precisely a seek request was satisfied.
type Accuracy int

const (
	// AccuracyExact means the returned offset starts a frame whose position
	// relative to the target is known exactly (seek table, frame index, or
	// a bisection probe that landed on the target).
	AccuracyExact Accuracy = iota

	// AccuracyEstimated means bisection converged within tolerance but the
	// returned frame does not necessarily contain the target sample.
	AccuracyEstimated

	// AccuracyDegraded means no strategy could locate the target; the
	// stream was repositioned to the start of the audio data.
	AccuracyDegraded
)

// String returns the accuracy tier as a short lowercase word.
func (a Accuracy) String() string {
	switch a {
	case AccuracyExact:
		return "exact"
	case AccuracyEstimated:
		return "estimated"
	case AccuracyDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// SeekResult reports where a seek request actually landed.
type SeekResult struct {
	// ByteOffset is the absolute stream offset of the chosen frame header.
	ByteOffset int64

	// Sample is the first sample of the frame at ByteOffset.
	Sample uint64

	// Accuracy is the tier of the result. Callers deciding whether to warn
	// or retry should inspect it; a seek never silently returns a wildly
	// wrong position.
	Accuracy Accuracy
}
