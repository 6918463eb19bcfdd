package types

import "fmt"

// OutOfBoundsError is returned when attempting to read beyond stream bounds.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (stream size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed stream size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// CorruptedStreamError is returned when the stream structure is invalid in a
// way that makes it unusable (missing magic, absent or malformed STREAMINFO).
type CorruptedStreamError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedStreamError) Error() string {
	return fmt.Sprintf("%s: corrupted stream at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// SeekError is returned when a seek request cannot be satisfied at all,
// for example when the target sample lies beyond the end of the stream.
//
// A SeekError is never used for reduced accuracy; degraded seeks succeed
// and report their accuracy tier instead.
type SeekError struct {
	Path   string
	Target uint64
	Reason string
}

func (e *SeekError) Error() string {
	return fmt.Sprintf("%s: seek to sample %d failed: %s", e.Path, e.Target, e.Reason)
}

// FrameError is returned when a frame body fails validation (CRC-16 mismatch,
// truncated payload). The frame is rejected; the stream itself stays usable
// and the next read continues past the bad frame.
type FrameError struct {
	Path   string
	Offset int64
	Reason string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s: invalid frame at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings indicate problems that don't prevent demuxing but may indicate
// corrupted or unusual data. Examples include:
//   - SEEKTABLE entries out of order or with a truncated tail
//   - CUESHEET track/index counts that don't match the declared values
//   - Metadata block headers that can't be read
//
// Warnings are collected in Demuxer.Warnings during parsing.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "metadata", "seektable", "cuesheet", "seek"

	// Warning message
	Message string

	// Stream offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
