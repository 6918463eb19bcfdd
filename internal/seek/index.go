// Package seek resolves target sample numbers to byte offsets. It layers an
// ordered list of strategies (seek table, frame index, bisection, fallback)
// over a frame-probing byte source.
package seek

import "slices"

// IndexEntry records that the frame at Offset starts at Sample. Exact
// entries come from successful frame parses; estimated ones from
// interpolation and are never reused as direct jump points.
type IndexEntry struct {
	Offset int64
	Sample uint64
	Exact  bool
}

// FrameIndex is an incrementally built mapping from visited byte offsets to
// the sample numbers found there, used to avoid re-probing. It is owned by
// exactly one demuxer instance and lives for the lifetime of one open
// stream; reopening a stream starts from an empty index so stale offsets
// can never be reused against a truncated or replaced file.
type FrameIndex struct {
	entries []IndexEntry // sorted ascending by Sample
}

// NewFrameIndex returns an empty index.
func NewFrameIndex() *FrameIndex {
	return &FrameIndex{}
}

// Add records a visited offset. Adding the same offset again is a no-op
// unless the new entry upgrades an estimated one to exact.
func (ix *FrameIndex) Add(offset int64, sample uint64, exact bool) {
	i, found := slices.BinarySearchFunc(ix.entries, sample, func(e IndexEntry, s uint64) int {
		switch {
		case e.Sample < s:
			return -1
		case e.Sample > s:
			return 1
		default:
			return 0
		}
	})

	if found {
		if exact && !ix.entries[i].Exact {
			ix.entries[i] = IndexEntry{Offset: offset, Sample: sample, Exact: true}
		}
		return
	}

	ix.entries = slices.Insert(ix.entries, i, IndexEntry{Offset: offset, Sample: sample, Exact: exact})
}

// Before returns the exact entry with the largest sample at or before
// target, if any.
func (ix *FrameIndex) Before(target uint64) (IndexEntry, bool) {
	best := IndexEntry{}
	ok := false
	for _, e := range ix.entries {
		if e.Sample > target {
			break
		}
		if e.Exact {
			best = e
			ok = true
		}
	}
	return best, ok
}

// Len returns the number of cached entries.
func (ix *FrameIndex) Len() int {
	return len(ix.entries)
}
