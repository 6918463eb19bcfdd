package seek

import (
	"slices"

	"github.com/simonhull/flacdemux/internal/types"
)

// DefaultToleranceMS is the time differential, in milliseconds, under which
// a bisection probe counts as converged.
const DefaultToleranceMS = 250

// strategy is one attempt at resolving a target sample to a byte offset.
// It either produces a result or declines, in which case the engine moves
// on to the next strategy in priority order.
type strategy struct {
	name    string
	resolve func(target uint64) (types.SeekResult, bool)
}

// Engine orchestrates the strategy-priority policy for one open stream.
// It is not safe for concurrent use; the owning demuxer serializes seeks.
type Engine struct {
	info        *types.StreamInfo
	table       *types.SeekTable
	index       *FrameIndex
	prober      Prober
	size        int64
	toleranceMS int64
	strategies  []strategy
}

// NewEngine builds an engine over the stream's metadata and a frame prober.
// table may be nil when the stream carries no usable SEEKTABLE.
func NewEngine(info *types.StreamInfo, table *types.SeekTable, prober Prober, size int64, toleranceMS int64) *Engine {
	e := &Engine{
		info:        info,
		table:       table,
		index:       NewFrameIndex(),
		prober:      prober,
		size:        size,
		toleranceMS: toleranceMS,
	}

	// Strict priority order; the first strategy to produce a result wins.
	e.strategies = []strategy{
		{name: "seektable", resolve: e.fromSeekTable},
		{name: "frameindex", resolve: e.fromFrameIndex},
		{name: "bisection", resolve: e.fromBisection},
	}

	return e
}

// Index exposes the engine's frame index so the demuxer can feed it exact
// entries discovered during sequential reads.
func (e *Engine) Index() *FrameIndex {
	return e.index
}

// Resolve maps a target sample to a byte offset, trying each strategy in
// priority order and falling back to the start of the audio data when all
// of them decline. Every successful resolution feeds the frame index.
func (e *Engine) Resolve(target uint64) types.SeekResult {
	for _, s := range e.strategies {
		if res, ok := s.resolve(target); ok {
			e.index.Add(res.ByteOffset, res.Sample, res.Accuracy == types.AccuracyExact)
			return res
		}
	}

	// Strategy of last resort: rewind to the first frame and report the
	// degraded accuracy explicitly. The landing is not indexed; no frame
	// parse confirmed it, and repeating the seek must surface the same
	// degradation instead of replaying it as an exact hit.
	return types.SeekResult{
		ByteOffset: e.info.AudioDataOffset,
		Sample:     0,
		Accuracy:   types.AccuracyDegraded,
	}
}

// fromSeekTable binary-searches the SEEKTABLE for the entry with the
// largest sample number at or before the target.
func (e *Engine) fromSeekTable(target uint64) (types.SeekResult, bool) {
	if e.table == nil || len(e.table.Points) == 0 {
		return types.SeekResult{}, false
	}

	points := e.table.Points
	// First point past the target; the predecessor is the jump point.
	i, _ := slices.BinarySearchFunc(points, target, func(p types.SeekPoint, t uint64) int {
		switch {
		case p.Sample < t:
			return -1
		case p.Sample > t:
			return 1
		default:
			return 0
		}
	})
	if i < len(points) && points[i].Sample == target {
		i++
	}
	if i == 0 {
		// Table starts past the target; jumping to its first point would
		// overshoot, so let a later strategy find an earlier frame.
		return types.SeekResult{}, false
	}

	p := points[i-1]
	return types.SeekResult{
		ByteOffset: e.info.AudioDataOffset + int64(p.Offset),
		Sample:     p.Sample,
		Accuracy:   types.AccuracyExact,
	}, true
}

// fromFrameIndex reuses an exact entry at or before the target as a direct
// jump point, avoiding re-probing.
func (e *Engine) fromFrameIndex(target uint64) (types.SeekResult, bool) {
	entry, ok := e.index.Before(target)
	if !ok {
		return types.SeekResult{}, false
	}

	return types.SeekResult{
		ByteOffset: entry.Offset,
		Sample:     entry.Sample,
		Accuracy:   types.AccuracyExact,
	}, true
}

// fromBisection estimates, probes and converges on the byte offset nearest
// the target. Declines when the stream's extent cannot support a search or
// when no probe ever finds a valid frame header.
func (e *Engine) fromBisection(target uint64) (types.SeekResult, bool) {
	total := e.info.TotalSamples
	audioOffset := e.info.AudioDataOffset
	if total == 0 || e.size <= audioOffset+endGuard {
		return types.SeekResult{}, false
	}

	res, ok := bisect(e.prober, target, total, e.info.SampleRate, audioOffset, e.size, e.toleranceMS)
	if !ok {
		return types.SeekResult{}, false
	}

	// Only a landing on the target sample itself earns the exact tier. The
	// millisecond differential truncates, so a zero diff still admits a
	// frame starting just short of the target.
	accuracy := types.AccuracyEstimated
	if res.sample == target {
		accuracy = types.AccuracyExact
	}

	return types.SeekResult{
		ByteOffset: res.offset,
		Sample:     res.sample,
		Accuracy:   accuracy,
	}, true
}
