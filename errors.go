package tracksplit

import (
	"github.com/simonhull/tracksplit/internal/types"
)

// UnsupportedEncodingError reports a source whose compression scheme is
// not FLAC. Alias of the internal type so errors.As works across the
// package boundary.
type UnsupportedEncodingError = types.UnsupportedEncodingError

// MalformedContainerError reports a source with missing or structurally
// invalid mandatory metadata blocks.
type MalformedContainerError = types.MalformedContainerError

// MissingCueSheetError reports a source with no embedded cue sheet.
type MissingCueSheetError = types.MissingCueSheetError

// FrameSyncLostError reports a bitstream position where a valid frame
// sync pattern was expected but not found. Fatal for the whole file.
type FrameSyncLostError = types.FrameSyncLostError

// TrackBeforeStreamStartError reports a cue track starting outside the
// stream's sample range.
type TrackBeforeStreamStartError = types.TrackBeforeStreamStartError

// EmptyTrackRangeError reports a track that resolved to a zero-byte
// range, which signals a degenerate or out-of-order cue sheet.
type EmptyTrackRangeError = types.EmptyTrackRangeError

// TagConflictError reports a merged tag that cannot be represented
// within the format's size limits.
type TagConflictError = types.TagConflictError

// IoFailureError wraps a read or write failure during assembly.
type IoFailureError = types.IoFailureError
