package meta

import (
	"fmt"
	"slices"

	"github.com/simonhull/flacdemux/internal/binary"
	"github.com/simonhull/flacdemux/internal/types"
)

// seekPointSize is the encoded size of one SEEKTABLE entry.
const seekPointSize = 18

// placeholderSample marks an unused SEEKTABLE entry. Placeholders pad tables
// to a fixed size and must never be used for seeking.
const placeholderSample = ^uint64(0)

// parseSeekTable decodes the SEEKTABLE block at offset, filtering out
// placeholder entries. SEEKTABLE problems never abort parsing; they are
// reported as warnings and the usable subset (possibly none) is returned.
func parseSeekTable(sr *binary.SafeReader, offset, blockLength int64) (*types.SeekTable, []types.Warning) {
	var warnings []types.Warning
	warn := func(format string, args ...any) {
		warnings = append(warnings, types.Warning{
			Stage:   "seektable",
			Message: fmt.Sprintf(format, args...),
			Offset:  offset,
		})
	}

	if blockLength%seekPointSize != 0 {
		warn("SEEKTABLE length %d is not a multiple of %d; trailing bytes ignored", blockLength, seekPointSize)
	}

	n := blockLength / seekPointSize
	points := make([]types.SeekPoint, 0, n)

	r := binary.NewReader(sr, offset)
	for i := int64(0); i < n; i++ {
		cr := binary.NewChainReader(r)
		sample := binary.ReadChained[uint64](cr, "seek point sample number")
		byteOffset := binary.ReadChained[uint64](cr, "seek point byte offset")
		frameSamples := binary.ReadChained[uint16](cr, "seek point frame samples")
		if err := cr.Error(); err != nil {
			warn("failed to read seek point %d: %v", i, err)
			break
		}

		if sample == placeholderSample {
			continue
		}

		points = append(points, types.SeekPoint{
			Sample:       sample,
			Offset:       byteOffset,
			FrameSamples: frameSamples,
		})
	}

	if len(points) == 0 {
		return nil, warnings
	}

	// The format requires ascending sample order. Tolerate writers that get
	// it wrong rather than discarding the whole table.
	if !slices.IsSortedFunc(points, comparePoints) {
		warn("SEEKTABLE entries out of order; sorted %d usable points", len(points))
		slices.SortFunc(points, comparePoints)
	}

	return &types.SeekTable{Points: points}, warnings
}

func comparePoints(a, b types.SeekPoint) int {
	switch {
	case a.Sample < b.Sample:
		return -1
	case a.Sample > b.Sample:
		return 1
	default:
		return 0
	}
}
