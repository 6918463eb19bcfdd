// Package meta parses the FLAC metadata block chain that precedes the audio
// frames: the "fLaC" marker, the mandatory STREAMINFO block, and any
// optional blocks (SEEKTABLE, CUESHEET, ...).
//
// Only STREAMINFO is essential. Every other block degrades to a warning on
// failure, and unknown block types are skipped by length so streams using
// future block types still parse.
package meta

import (
	"fmt"

	"github.com/simonhull/flacdemux/internal/binary"
	"github.com/simonhull/flacdemux/internal/types"
)

// Metadata block types.
const (
	blockTypeStreamInfo    = 0
	blockTypePadding       = 1
	blockTypeApplication   = 2
	blockTypeSeekTable     = 3
	blockTypeVorbisComment = 4
	blockTypeCueSheet      = 5
	blockTypePicture       = 6
)

// Metadata is everything recovered from the header region of a FLAC stream.
type Metadata struct {
	Info      *types.StreamInfo
	SeekTable *types.SeekTable // nil when absent or empty after placeholder filtering
	CueSheet  *types.CueSheet  // nil when absent or unparseable
	Warnings  []types.Warning
}

// Parse walks the metadata block chain of the stream behind sr.
//
// A missing "fLaC" marker or a missing/malformed STREAMINFO first block is
// fatal. Failures in any other block are reported as warnings and parsing
// continues with the next block.
func Parse(sr *binary.SafeReader) (*Metadata, error) {
	offset, err := skipID3(sr)
	if err != nil {
		return nil, err
	}

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, offset, "FLAC magic bytes"); err != nil {
		return nil, fmt.Errorf("read FLAC magic: %w", err)
	}
	if string(magic) != "fLaC" {
		return nil, &types.CorruptedStreamError{
			Path:   sr.Path(),
			Offset: offset,
			Reason: "invalid FLAC magic bytes",
		}
	}
	offset += 4

	md := &Metadata{}
	first := true

	for {
		// Metadata block header: [is_last(1) | block_type(7)] [length(24)].
		header, err := binary.Read[uint32](sr, offset, "metadata block header")
		if err != nil {
			if first {
				return nil, &types.CorruptedStreamError{
					Path:   sr.Path(),
					Offset: offset,
					Reason: "stream ends before STREAMINFO block",
				}
			}
			md.warn("metadata", offset, "failed to read metadata block header: %v", err)
			break
		}

		isLast := (header >> 31) == 1
		blockType := uint8((header >> 24) & 0x7F)
		blockLength := int64(header & 0x00FFFFFF)
		offset += 4

		if first {
			if blockType != blockTypeStreamInfo {
				return nil, &types.CorruptedStreamError{
					Path:   sr.Path(),
					Offset: offset - 4,
					Reason: fmt.Sprintf("first metadata block must be STREAMINFO, got type %d", blockType),
				}
			}

			info, err := parseStreamInfo(sr, offset, blockLength)
			if err != nil {
				return nil, &types.CorruptedStreamError{
					Path:   sr.Path(),
					Offset: offset,
					Reason: fmt.Sprintf("malformed STREAMINFO: %v", err),
				}
			}
			md.Info = info
			first = false
		} else {
			switch blockType {
			case blockTypeStreamInfo:
				md.warn("metadata", offset, "duplicate STREAMINFO block ignored")

			case blockTypeSeekTable:
				table, warnings := parseSeekTable(sr, offset, blockLength)
				md.Warnings = append(md.Warnings, warnings...)
				if table != nil {
					md.SeekTable = table
				}

			case blockTypeCueSheet:
				cs, err := parseCueSheet(sr, offset, blockLength)
				if err != nil {
					// CUESHEET is advisory; a bad one never aborts the chain.
					md.warn("cuesheet", offset, "failed to parse CUESHEET: %v", err)
				} else {
					md.CueSheet = cs
				}

			case blockTypePadding, blockTypeApplication, blockTypeVorbisComment, blockTypePicture:
				// Tag and artwork interpretation is out of scope; skip by length.

			default:
				// Unknown block type - skip it.
			}
		}

		offset += blockLength

		if isLast {
			break
		}
	}

	if md.Info == nil {
		return nil, &types.CorruptedStreamError{
			Path:   sr.Path(),
			Reason: "missing mandatory STREAMINFO block",
		}
	}

	// Audio frames start immediately after the last metadata block.
	md.Info.AudioDataOffset = offset

	return md, nil
}

func (md *Metadata) warn(stage string, offset int64, format string, args ...any) {
	md.Warnings = append(md.Warnings, types.Warning{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	})
}

// skipID3 returns the offset of the first post-ID3 byte. Real-world FLAC
// files frequently carry a prepended ID3v2 tag; its contents are not
// interpreted, only skipped.
func skipID3(sr *binary.SafeReader) (int64, error) {
	// Too short for an ID3v2 header; let the magic check report the real
	// problem.
	if sr.Size() < 10 {
		return 0, nil
	}

	header := make([]byte, 10)
	if err := sr.ReadAt(header, 0, "stream header"); err != nil {
		return 0, fmt.Errorf("read stream header: %w", err)
	}
	if string(header[:3]) != "ID3" {
		return 0, nil
	}

	// Bytes 6-9 hold the tag size as a synchsafe integer.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	return 10 + size, nil
}
