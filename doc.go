// Package tracksplit splits a single FLAC file carrying an embedded
// CUESHEET into one FLAC file per track, without decoding or
// re-encoding any audio.
//
// Every compressed frame is copied byte-for-byte from the source; only
// container-level metadata (STREAMINFO, vorbis comments, seek table) is
// recomputed per track. Track boundaries are rounded down to frame
// boundaries, so a track may start up to one frame before its cue point
// and absorb the few milliseconds of the next track's lead-in that
// share its final frame. Frames are never split.
//
// # Quick start
//
//	results, err := tracksplit.Split(ctx, "disc.flac",
//	    tracksplit.WithOutputDir("/music"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range results {
//	    fmt.Printf("track %d -> %s\n", r.Number, r.Path)
//	}
//
// Multiple discs can be split concurrently with SplitMany, which
// collects per-file results so one bad source never aborts the batch.
//
// # Per-track tags
//
// Album-level vorbis comments apply to every track; per-track overrides
// win on key collision. Archival rips conventionally store overrides as
// album comments suffixed with the track number ("TITLE[3]=..."); use
// TrackOverrides to extract that side mapping, or supply your own via
// WithTrackTags.
//
// # Errors
//
// Failures are typed (MissingCueSheetError, FrameSyncLostError,
// IoFailureError, ...) and identify the file, the stage, and where
// applicable the track, so "bad cue sheet" is distinguishable from "I/O
// error writing track 7". A corrupt or unsupported source is never
// worked around: any stage failure aborts that input file.
package tracksplit
