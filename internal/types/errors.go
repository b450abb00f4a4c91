package types

import "fmt"

// UnsupportedEncodingError is returned when the source container's
// compression scheme is not FLAC.
type UnsupportedEncodingError struct {
	Path   string
	Reason string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("%s: unsupported encoding: %s", e.Path, e.Reason)
}

// MalformedContainerError is returned when a mandatory metadata block is
// absent or structurally invalid.
type MalformedContainerError struct {
	Path   string
	Offset int64
	Reason string
}

func (e *MalformedContainerError) Error() string {
	return fmt.Sprintf("%s: malformed container at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// MissingCueSheetError is returned when the source carries no embedded
// cue sheet, or one without any audio tracks. The file cannot be split.
type MissingCueSheetError struct {
	Path string
}

func (e *MissingCueSheetError) Error() string {
	return fmt.Sprintf("%s: no embedded cue sheet; use `metaflac --import-cuesheet-from` to add one", e.Path)
}

// FrameSyncLostError is returned when the frame indexer cannot find a
// valid frame sync pattern at a position where one was expected. Fatal
// for the whole file: resynchronizing arbitrarily risks silently
// dropping audio.
type FrameSyncLostError struct {
	Path   string
	Offset int64 // bytes from the start of the frame region
	Reason string
}

func (e *FrameSyncLostError) Error() string {
	return fmt.Sprintf("%s: frame sync lost at region offset %d: %s", e.Path, e.Offset, e.Reason)
}

// TrackBeforeStreamStartError is returned when a cue track's start
// sample falls outside the stream's sample range.
type TrackBeforeStreamStartError struct {
	Path         string
	Track        int
	StartSample  uint64
	TotalSamples uint64
}

func (e *TrackBeforeStreamStartError) Error() string {
	return fmt.Sprintf("%s: track %d start sample %d outside stream of %d samples",
		e.Path, e.Track, e.StartSample, e.TotalSamples)
}

// EmptyTrackRangeError is returned when boundary resolution yields a
// zero-byte range, which signals a degenerate or out-of-order cue sheet.
type EmptyTrackRangeError struct {
	Path  string
	Track int
}

func (e *EmptyTrackRangeError) Error() string {
	return fmt.Sprintf("%s: track %d resolves to an empty byte range", e.Path, e.Track)
}

// TagConflictError is returned when a merged tag value cannot be
// represented within the format's size limits.
type TagConflictError struct {
	Track  int
	Key    string
	Reason string
}

func (e *TagConflictError) Error() string {
	return fmt.Sprintf("track %d: tag %s: %s", e.Track, e.Key, e.Reason)
}

// IoFailureError wraps a read or write failure while assembling an
// output track. The caller decides whether to retry or abort the batch.
type IoFailureError struct {
	Path  string // file being read or written
	Track int    // 0 when not attributable to a single track
	Op    string // "read" or "write"
	Err   error
}

func (e *IoFailureError) Error() string {
	if e.Track > 0 {
		return fmt.Sprintf("%s: track %d: %s failed: %v", e.Path, e.Track, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Path, e.Op, e.Err)
}

func (e *IoFailureError) Unwrap() error {
	return e.Err
}
