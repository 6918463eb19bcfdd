package meta

import (
	"fmt"
	"strings"

	"github.com/simonhull/flacdemux/internal/binary"
	"github.com/simonhull/flacdemux/internal/types"
)

// CUESHEET layout constants. The header is 128+8+1+258+1 bytes, each track
// record 8+1+12+1+13+1 bytes, each index point 8+1+3 bytes.
const (
	cueSheetHeaderSize = 396
	cueTrackSize       = 36
	cueIndexSize       = 12
)

// parseCueSheet decodes a CUESHEET metadata block. Declared counts are
// validated against what the block actually contains; any mismatch is an
// error, which the caller downgrades to a warning (CUESHEET is advisory).
func parseCueSheet(sr *binary.SafeReader, offset, blockLength int64) (*types.CueSheet, error) {
	if blockLength < cueSheetHeaderSize {
		return nil, fmt.Errorf("CUESHEET block too short: %d bytes (need at least %d)", blockLength, cueSheetHeaderSize)
	}

	end := offset + blockLength
	r := binary.NewReader(sr, offset)
	cr := binary.NewChainReader(r)

	mcn := cr.String(128, "media catalog number")
	leadIn := binary.ReadChained[uint64](cr, "lead-in samples")
	flags := binary.ReadChained[uint8](cr, "cuesheet flags")
	cr.Skip(258) // reserved
	trackCount := binary.ReadChained[uint8](cr, "track count")
	if err := cr.Error(); err != nil {
		return nil, err
	}

	if trackCount == 0 {
		return nil, fmt.Errorf("CUESHEET declares no tracks")
	}

	cs := &types.CueSheet{
		MediaCatalogNumber: strings.TrimRight(mcn, "\x00"),
		LeadIn:             leadIn,
		IsCD:               flags&0x80 != 0,
		Tracks:             make([]types.CueTrack, 0, trackCount),
	}

	seen := make(map[byte]bool, trackCount)
	for i := byte(0); i < trackCount; i++ {
		track, err := parseCueTrack(r, end)
		if err != nil {
			return nil, fmt.Errorf("track %d of %d declared: %w", i+1, trackCount, err)
		}

		// Track numbers must be unique, except that the lead-out track's
		// reserved number sits outside the 1-99 range anyway.
		if track.Number != types.LeadOutTrackNumber && seen[track.Number] {
			return nil, fmt.Errorf("duplicate track number %d", track.Number)
		}
		seen[track.Number] = true

		cs.Tracks = append(cs.Tracks, *track)
	}

	return cs, nil
}

// parseCueTrack decodes a single track record and its index points,
// validating the declared index count against the block bounds.
func parseCueTrack(r *binary.Reader, end int64) (*types.CueTrack, error) {
	if r.Offset()+cueTrackSize > end {
		return nil, fmt.Errorf("track record exceeds block bounds")
	}

	cr := binary.NewChainReader(r)
	trackOffset := binary.ReadChained[uint64](cr, "track offset")
	number := binary.ReadChained[uint8](cr, "track number")
	isrc := cr.String(12, "ISRC")
	flags := binary.ReadChained[uint8](cr, "track flags")
	cr.Skip(13) // reserved
	indexCount := binary.ReadChained[uint8](cr, "index count")
	if err := cr.Error(); err != nil {
		return nil, err
	}

	track := &types.CueTrack{
		Offset:      trackOffset,
		Number:      number,
		ISRC:        strings.TrimRight(isrc, "\x00"),
		IsAudio:     flags&0x80 == 0,
		PreEmphasis: flags&0x40 != 0,
		Indices:     make([]types.CueIndex, 0, indexCount),
	}

	// The lead-out track carries no index points; every other track must
	// declare at least one.
	if indexCount == 0 && number != types.LeadOutTrackNumber {
		return nil, fmt.Errorf("track %d declares no index points", number)
	}

	for j := byte(0); j < indexCount; j++ {
		if r.Offset()+cueIndexSize > end {
			return nil, fmt.Errorf("track %d declares %d index points but block ends after %d", number, indexCount, j)
		}

		icr := binary.NewChainReader(r)
		indexOffset := binary.ReadChained[uint64](icr, "index offset")
		indexNumber := binary.ReadChained[uint8](icr, "index number")
		icr.Skip(3) // reserved
		if err := icr.Error(); err != nil {
			return nil, err
		}

		track.Indices = append(track.Indices, types.CueIndex{
			Offset: indexOffset,
			Number: indexNumber,
		})
	}

	return track, nil
}
