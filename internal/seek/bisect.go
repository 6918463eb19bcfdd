package seek

// Bisection search over the audio data region. With no seek table and no
// usable index entry, the only way to find a target sample is to estimate
// its byte position from the stream's average density, probe for a real
// frame header there, and narrow the bracket from the sample number the
// probe reports. The input is untrusted and possibly corrupt, so every
// termination condition is bounded.

const (
	// maxIterations bounds the narrowing loop; iteration count above this
	// ends the search. This is the algorithm's own cancellation mechanism,
	// not an external timeout.
	maxIterations = 10

	// minWindow ends the search once the bracket is narrower than this many
	// bytes; probing inside a sub-frame-sized window cannot improve.
	minWindow = 64

	// endGuard reserves room below end-of-stream for probing a full frame
	// header.
	endGuard = 64
)

// Prober locates the first valid frame header at or after a byte offset.
// ok is false when the bounded forward scan finds no CRC-verified header.
type Prober interface {
	Probe(offset int64) (sample uint64, frameOffset int64, ok bool)
}

// bisectResult is the outcome of a converged (or best-effort) bisection.
type bisectResult struct {
	offset   int64  // frame offset of the best probe
	sample   uint64 // first sample of that frame
	timeDiff int64  // |sample - target| in milliseconds
}

// bisectState carries the live bracket of one search. Created per seek
// request and discarded once a decision is reached.
type bisectState struct {
	target      uint64
	low, high   int64
	current     int64
	lastProbed  int64
	iterations  int
	best        bisectResult
	haveBest    bool
	sampleRate  uint32
	toleranceMS int64
}

// initialEstimate computes the proportional starting offset,
// audioOffset + target/total * (size - audioOffset), clamped into
// [audioOffset, size-endGuard].
func initialEstimate(target, totalSamples uint64, audioOffset, size int64) int64 {
	span := size - audioOffset
	est := audioOffset + int64(float64(target)/float64(totalSamples)*float64(span))

	if max := size - endGuard; est > max {
		est = max
	}
	if est < audioOffset {
		est = audioOffset
	}
	return est
}

// timeDiffMS returns |actual - target| scaled to milliseconds.
func timeDiffMS(actual, target uint64, sampleRate uint32) int64 {
	var d uint64
	if actual > target {
		d = actual - target
	} else {
		d = target - actual
	}
	return int64(d * 1000 / uint64(sampleRate))
}

// bisect runs the narrowing loop. It returns the best position observed
// across all iterations and whether any probe produced a valid frame header
// at all; false means the stream has no recoverable sync points in range
// and the caller must fall back.
func bisect(p Prober, target, totalSamples uint64, sampleRate uint32, audioOffset, size int64, toleranceMS int64) (bisectResult, bool) {
	st := &bisectState{
		target:      target,
		low:         audioOffset,
		high:        size,
		current:     initialEstimate(target, totalSamples, audioOffset, size),
		lastProbed:  -1,
		sampleRate:  sampleRate,
		toleranceMS: toleranceMS,
	}

	for {
		// Probing the same offset twice in a row means the bracket can no
		// longer move; stop rather than loop.
		if st.current == st.lastProbed {
			break
		}

		sample, frameOffset, ok := p.Probe(st.current)
		st.lastProbed = st.current
		st.iterations++

		if ok {
			diff := timeDiffMS(sample, st.target, st.sampleRate)
			st.record(frameOffset, sample, diff)

			if diff <= st.toleranceMS {
				break
			}

			// The probe confirmed which side of the target we are on; the
			// bracket never regresses past a confirmed bound.
			if sample < st.target {
				st.low = st.current
			} else {
				st.high = st.current
			}
		} else {
			// No header between current and the scan horizon. Treat the
			// region as unusable upper range so the search moves down.
			st.high = st.current
		}

		if st.iterations > maxIterations {
			break
		}
		if st.high-st.low < minWindow {
			break
		}

		st.current = st.low + (st.high-st.low)/2
	}

	return st.best, st.haveBest
}

// record tracks the minimum time differential observed across all
// iterations. On ties, the offset whose sample lies at or before the target
// wins; overshooting the target is audible as a skip, undershooting is not.
func (st *bisectState) record(offset int64, sample uint64, diff int64) {
	if !st.haveBest {
		st.best = bisectResult{offset: offset, sample: sample, timeDiff: diff}
		st.haveBest = true
		return
	}

	better := diff < st.best.timeDiff
	if diff == st.best.timeDiff && st.best.sample > st.target && sample <= st.target {
		better = true
	}
	if better {
		st.best = bisectResult{offset: offset, sample: sample, timeDiff: diff}
	}
}
