package flacdemux

import "time"

// Option configures behavior when opening a stream.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	d, err := flacdemux.Open("song.flac",
//	    flacdemux.WithStrictParsing(),
//	    flacdemux.WithSeekTolerance(100*time.Millisecond),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening streams.
type openOptions struct {
	strictParsing  bool          // Fail on any warning
	ignoreWarnings bool          // Suppress all warnings
	seekTolerance  time.Duration // Bisection convergence tolerance
	probeWindow    int           // Forward scan distance per probe, in bytes
	path           string        // Name used in error messages
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		strictParsing:  false,
		ignoreWarnings: false,
		seekTolerance:  250 * time.Millisecond,
		probeWindow:    64 * 1024,
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default, flacdemux continues when it encounters issues like a
// truncated SEEKTABLE or an inconsistent CUESHEET, returning warnings
// alongside the parsed metadata.
//
// With strict parsing enabled, any warning becomes a fatal error.
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// By default, warnings about non-fatal issues are collected and available
// via Demuxer.Warnings. This option discards them.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}

// WithSeekTolerance sets the time differential under which a bisection
// probe counts as converged.
//
// Default is 250ms. Lower values cost more probe iterations; the iteration
// budget still bounds the search regardless of tolerance.
func WithSeekTolerance(tol time.Duration) Option {
	return func(o *openOptions) {
		if tol > 0 {
			o.seekTolerance = tol
		}
	}
}

// withPath names the stream in error messages. Open sets it to the file
// path; OpenReader callers get the generic "stream".
func withPath(path string) Option {
	return func(o *openOptions) {
		o.path = path
	}
}

// WithProbeWindow sets how many bytes a single probe scans forward while
// looking for a valid frame header.
//
// Default is 64KiB. The window must comfortably exceed the stream's maximum
// frame size, otherwise probes into large frames find nothing and seeks
// degrade.
func WithProbeWindow(bytes int) Option {
	return func(o *openOptions) {
		if bytes > 0 {
			o.probeWindow = bytes
		}
	}
}
