package flacdemux

import (
	"github.com/simonhull/flacdemux/internal/types"
)

// OutOfBoundsError is an alias to types.OutOfBoundsError.
// Re-exporting from internal/types to keep the public API in one package.
type OutOfBoundsError = types.OutOfBoundsError

// CorruptedStreamError is an alias to types.CorruptedStreamError.
// Re-exporting from internal/types to keep the public API in one package.
type CorruptedStreamError = types.CorruptedStreamError

// SeekError is an alias to types.SeekError.
// Re-exporting from internal/types to keep the public API in one package.
type SeekError = types.SeekError

// FrameError is an alias to types.FrameError.
// Re-exporting from internal/types to keep the public API in one package.
type FrameError = types.FrameError

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to keep the public API in one package.
type Warning = types.Warning
