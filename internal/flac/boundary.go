package flac

import (
	"sort"

	"github.com/simonhull/tracksplit/internal/types"
)

// ResolveBoundaries maps each cue track's start sample to a frame
// boundary, producing one half-open byte range per audio track, in cue
// order. A track starts at the latest frame whose first sample is at or
// before the cue point (round-down), so every output begins exactly on
// a frame boundary; if the cue point falls mid-frame the on-disk start
// precedes the nominal start by less than one frame. A track ends where
// the next track starts, or at the end of the bitstream for the final
// track, so a frame is never split.
//
// regionSize is the byte length of the frame region; totalSamples the
// source's total sample count (used for the final track's nominal end
// when the cue sheet has no lead-out).
func ResolveBoundaries(entries []types.FrameIndexEntry, sheet *types.CueSheet, regionSize int64, totalSamples uint64, path string) ([]types.ResolvedTrackRange, error) {
	tracks := sheet.AudioTracks()
	ranges := make([]types.ResolvedTrackRange, 0, len(tracks))

	endSampleOf := func(i int) uint64 {
		if i+1 < len(tracks) {
			return tracks[i+1].StartSample
		}
		if leadOut, ok := sheet.LeadOut(); ok {
			return leadOut
		}
		return totalSamples
	}

	for i, track := range tracks {
		if track.StartSample >= totalSamples {
			return nil, &types.TrackBeforeStreamStartError{
				Path: path, Track: track.Number,
				StartSample: track.StartSample, TotalSamples: totalSamples,
			}
		}

		// Latest entry with StartSample <= target.
		idx := sort.Search(len(entries), func(j int) bool {
			return entries[j].StartSample > track.StartSample
		}) - 1
		if idx < 0 {
			return nil, &types.TrackBeforeStreamStartError{
				Path: path, Track: track.Number,
				StartSample: track.StartSample, TotalSamples: totalSamples,
			}
		}

		ranges = append(ranges, types.ResolvedTrackRange{
			Number:      track.Number,
			StartOffset: entries[idx].Offset,
			EndOffset:   regionSize, // trimmed below for all but the last track
			StartSample: track.StartSample,
			EndSample:   endSampleOf(i),
		})
	}

	for i := range ranges {
		if i+1 < len(ranges) {
			ranges[i].EndOffset = ranges[i+1].StartOffset
		}
		if ranges[i].EndOffset <= ranges[i].StartOffset {
			return nil, &types.EmptyTrackRangeError{Path: path, Track: ranges[i].Number}
		}
	}
	return ranges, nil
}

// entriesIn returns the frame index entries whose byte offsets fall in
// the half-open range [start, end).
func entriesIn(entries []types.FrameIndexEntry, start, end int64) []types.FrameIndexEntry {
	lo := sort.Search(len(entries), func(i int) bool { return entries[i].Offset >= start })
	hi := sort.Search(len(entries), func(i int) bool { return entries[i].Offset >= end })
	return entries[lo:hi]
}
