package flacdemux

import (
	"github.com/simonhull/flacdemux/internal/types"
)

// StreamInfo is an alias to types.StreamInfo.
// Re-exporting from internal/types to keep the public API in one package.
type StreamInfo = types.StreamInfo

// SeekPoint is an alias to types.SeekPoint.
type SeekPoint = types.SeekPoint

// SeekTable is an alias to types.SeekTable.
type SeekTable = types.SeekTable

// CueSheet is an alias to types.CueSheet.
type CueSheet = types.CueSheet

// CueTrack is an alias to types.CueTrack.
type CueTrack = types.CueTrack

// CueIndex is an alias to types.CueIndex.
type CueIndex = types.CueIndex

// FrameHeader is an alias to types.FrameHeader.
type FrameHeader = types.FrameHeader

// Frame is an alias to types.Frame.
type Frame = types.Frame

// SeekResult is an alias to types.SeekResult.
type SeekResult = types.SeekResult

// Accuracy is an alias to types.Accuracy.
type Accuracy = types.Accuracy

// Re-export the accuracy tiers.
const (
	AccuracyExact     = types.AccuracyExact
	AccuracyEstimated = types.AccuracyEstimated
	AccuracyDegraded  = types.AccuracyDegraded
)
