package flacdemux

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/flacdemux/internal/binary"
	"github.com/simonhull/flacdemux/internal/frame"
	"github.com/simonhull/flacdemux/internal/meta"
	"github.com/simonhull/flacdemux/internal/seek"
	"github.com/simonhull/flacdemux/internal/types"
)

// Demuxer provides access to the structure of one open FLAC stream: its
// parsed metadata, sequential frame reads, and sample-accurate seeking.
//
// A Demuxer exclusively owns its byte source and serializes operations: a
// Seek or NextFrame issued while another is in progress blocks until the
// first completes. The internal frame index and bisection state are mutated
// in place, so concurrent seeks on one handle are disallowed by design.
//
// Always call Close() when done to release the underlying source:
//
//	d, err := flacdemux.Open("song.flac")
//	if err != nil {
//		return err
//	}
//	defer d.Close()
type Demuxer struct {
	mu sync.Mutex

	path   string
	reader io.ReaderAt
	sr     *binary.SafeReader
	size   int64

	info      *types.StreamInfo
	seekTable *types.SeekTable
	cueSheet  *types.CueSheet
	warnings  []types.Warning

	engine *seek.Engine
	pos    int64 // next byte NextFrame will scan from

	opts *openOptions
}

// Open opens a FLAC file and parses its metadata block chain.
//
// Open reads only the metadata region; audio frames are consumed lazily via
// NextFrame. If optional metadata blocks are damaged, Open returns a usable
// Demuxer with warnings instead of an error; only a missing or malformed
// STREAMINFO block is fatal. Check Demuxer.Warnings for details.
//
// Options can be provided to customize behavior:
//
//	d, err := flacdemux.Open("song.flac",
//	    flacdemux.WithStrictParsing(),
//	    flacdemux.WithSeekTolerance(100*time.Millisecond),
//	)
func Open(path string, opts ...Option) (*Demuxer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	d, err := OpenReader(f, stat.Size(), append([]Option{withPath(path)}, opts...)...)
	if err != nil {
		f.Close()
		return nil, err
	}

	return d, nil
}

// OpenContext opens a stream with context support for cancellation.
//
// This is a thin wrapper around Open() that checks the context before
// starting; metadata parsing itself is a handful of small reads.
func OpenContext(ctx context.Context, path string, opts ...Option) (*Demuxer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Open(path, opts...)
}

// OpenReader opens a stream from a seekable random-access byte source.
//
// The source must be stable for the lifetime of the Demuxer: its size and
// contents may not change while parsing or seeking is in progress. If r
// implements io.Closer, Close() closes it.
func OpenReader(r io.ReaderAt, size int64, opts ...Option) (*Demuxer, error) {
	options := defaultOptions()
	path := "stream"
	for _, opt := range opts {
		opt(options)
	}
	if options.path != "" {
		path = options.path
	}

	sr := binary.NewSafeReader(r, size, path)

	md, err := meta.Parse(sr)
	if err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}

	if options.strictParsing && len(md.Warnings) > 0 {
		return nil, fmt.Errorf("strict parsing failed: %s", md.Warnings[0].Message)
	}
	if options.ignoreWarnings {
		md.Warnings = nil
	}

	d := &Demuxer{
		path:      path,
		reader:    r,
		sr:        sr,
		size:      size,
		info:      md.Info,
		seekTable: md.SeekTable,
		cueSheet:  md.CueSheet,
		warnings:  md.Warnings,
		pos:       md.Info.AudioDataOffset,
		opts:      options,
	}

	p := &prober{sr: sr, info: md.Info, window: options.probeWindow}
	d.engine = seek.NewEngine(md.Info, md.SeekTable, p, size, options.seekTolerance.Milliseconds())

	return d, nil
}

// OpenMany opens multiple FLAC files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths.
//
// If any file fails to open, all successfully opened demuxers are closed
// and an error is returned.
func OpenMany(ctx context.Context, paths ...string) ([]*Demuxer, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*Demuxer, len(paths))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			d, err := Open(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, d := range results {
			if d != nil {
				d.Close()
			}
		}
		return nil, err
	}

	return results, nil
}

// Close releases the underlying byte source.
//
// After Close is called, the Demuxer should not be used. The frame index
// dies with the Demuxer; reopening the same file starts from an empty
// index, so stale offsets are never reused against a changed file.
func (d *Demuxer) Close() error {
	if closer, ok := d.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// StreamInfo returns the stream's parsed STREAMINFO properties.
func (d *Demuxer) StreamInfo() StreamInfo {
	return *d.info
}

// SeekTable returns the usable seek points parsed from the SEEKTABLE block,
// or nil if the stream carries none. Placeholder entries are already
// filtered out.
func (d *Demuxer) SeekTable() *SeekTable {
	return d.seekTable
}

// CueSheet returns the parsed CUESHEET block, or nil if the stream carries
// none or the block was inconsistent (see Warnings).
func (d *Demuxer) CueSheet() *CueSheet {
	return d.cueSheet
}

// Warnings returns the non-fatal issues encountered during parsing.
func (d *Demuxer) Warnings() []Warning {
	return d.warnings
}

// Duration returns the stream's total playback time, or 0 when the total
// sample count is unknown.
func (d *Demuxer) Duration() time.Duration {
	return d.info.Duration()
}

// ApproxBitrate estimates the stream's average bitrate in bits per second
// from its size and duration. FLAC is variable-bitrate, so this is a rough
// whole-stream figure; 0 when the duration is unknown.
func (d *Demuxer) ApproxBitrate() int {
	dur := d.info.Duration()
	if dur <= 0 {
		return 0
	}
	return int(float64(d.size-d.info.AudioDataOffset) * 8 / dur.Seconds())
}

// Seek repositions the stream at the frame nearest the target sample and
// reports where it actually landed.
//
// Strategies are tried in strict priority order (SEEKTABLE lookup, frame
// index reuse, bisection search, rewind to the first frame) and the result
// always carries its accuracy tier. Each successful seek feeds the frame
// index, improving future seeks on the same handle.
//
// A SeekError is returned only when the target lies beyond the end of a
// stream whose total sample count is known.
func (d *Demuxer) Seek(target uint64) (SeekResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if total := d.info.TotalSamples; total > 0 && target >= total {
		return SeekResult{}, &SeekError{
			Path:   d.path,
			Target: target,
			Reason: fmt.Sprintf("target beyond stream end (%d samples)", total),
		}
	}

	res := d.engine.Resolve(target)
	d.pos = res.ByteOffset
	return res, nil
}

// NextFrame returns the next audio frame at or after the current position:
// its decoded header plus the raw frame bytes, verified against the
// whole-frame CRC-16.
//
// A frame failing validation is skipped and reported as a *FrameError; the
// next call continues past it. io.EOF signals a clean end of stream.
func (d *Demuxer) NextFrame() (*Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pos >= d.size {
		return nil, io.EOF
	}

	// The scan window must be able to hold one whole frame plus the next
	// frame's header, which delimits it.
	window := int64(d.opts.probeWindow)
	if fsMax := int64(d.info.FrameSizeMax); fsMax > 0 && window < 2*fsMax {
		window = 2 * fsMax
	}

	end := d.pos + window
	if end > d.size {
		end = d.size
	}

	buf := make([]byte, end-d.pos)
	if err := d.sr.ReadAt(buf, d.pos, "frame scan"); err != nil {
		return nil, err
	}

	h, rel, ok := frame.Scan(buf, d.info)
	if !ok {
		if end == d.size {
			// Nothing but trailing garbage left.
			d.pos = d.size
			return nil, io.EOF
		}
		// Corrupt region; skip it, overlapping the boundary so a header
		// straddling the window edge is still found next call.
		off := d.pos
		d.pos = end - int64(frame.MinHeaderSize)
		return nil, &FrameError{Path: d.path, Offset: off, Reason: "no frame sync within scan window"}
	}
	frameOff := d.pos + int64(rel)

	// The frame ends where the next valid header begins, or at end of
	// stream for the last frame.
	frameEnd := -1
	searchFrom := rel + h.HeaderSize + 2 // a frame at least holds its CRC-16
	if searchFrom < len(buf) {
		if _, j, found := frame.Scan(buf[searchFrom:], d.info); found {
			frameEnd = searchFrom + j
		}
	}
	if frameEnd < 0 {
		if end < d.size {
			d.pos = frameOff + int64(h.HeaderSize)
			return nil, &FrameError{Path: d.path, Offset: frameOff, Reason: "frame exceeds scan window"}
		}
		frameEnd = len(buf)
	}

	data := make([]byte, frameEnd-rel)
	copy(data, buf[rel:frameEnd])

	if !frame.VerifyBody(data) {
		d.pos = d.pos + int64(frameEnd)
		return nil, &FrameError{Path: d.path, Offset: frameOff, Reason: "frame CRC-16 mismatch"}
	}

	// Every verified frame is a free exact index entry for future seeks.
	d.engine.Index().Add(frameOff, h.FirstSample, true)
	d.pos = d.pos + int64(frameEnd)

	return &Frame{Header: *h, Data: data, Offset: frameOff}, nil
}

// Offset returns the byte position the next NextFrame call will scan from.
func (d *Demuxer) Offset() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pos
}

// prober adapts the demuxer's byte source to the seek engine: it scans a
// bounded window at the requested offset for a CRC-verified frame header.
type prober struct {
	sr     *binary.SafeReader
	info   *types.StreamInfo
	window int
}

func (p *prober) Probe(offset int64) (uint64, int64, bool) {
	size := p.sr.Size()
	if offset < 0 || offset >= size {
		return 0, 0, false
	}

	end := offset + int64(p.window)
	if end > size {
		end = size
	}

	buf := make([]byte, end-offset)
	if err := p.sr.ReadAt(buf, offset, "frame probe"); err != nil {
		return 0, 0, false
	}

	h, rel, ok := frame.Scan(buf, p.info)
	if !ok {
		return 0, 0, false
	}

	return h.FirstSample, offset + int64(rel), true
}
