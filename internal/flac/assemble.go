package flac

import (
	"io"
	"log/slog"

	"github.com/simonhull/tracksplit/internal/binio"
	"github.com/simonhull/tracksplit/internal/types"
)

// Seek points are spaced roughly this many seconds apart, matching the
// reference encoder's default seek table density.
const seekPointIntervalSeconds = 10

// AssembleInput carries everything needed to build one output track.
type AssembleInput struct {
	Stream   types.StreamDescription // source stream description
	Range    types.ResolvedTrackRange
	Entries  []types.FrameIndexEntry // full source frame index
	Tags     *types.Tags             // merged output tags
	Pictures []types.Picture
	Padding  uint32 // PADDING block body size
	Logger   *slog.Logger
}

// AssembleTrack writes one complete, independently playable FLAC
// container to dst: a recomputed STREAMINFO, the merged tag block, a
// seek table addressing the new file's own offsets, carried-over
// pictures, padding, and finally the source's frame bytes for the
// resolved range copied verbatim. No audio sample is decoded or
// re-encoded. Returns the actual sample span of the copied frames.
func AssembleTrack(src io.ReaderAt, audioStart int64, in AssembleInput, dst io.Writer) (uint64, error) {
	entries := entriesIn(in.Entries, in.Range.StartOffset, in.Range.EndOffset)
	if len(entries) == 0 {
		return 0, &types.EmptyTrackRangeError{Track: in.Range.Number}
	}

	stream := trackStreamDescription(in.Stream, entries, in.Range)
	points := buildSeekTable(entries, in.Range, in.Stream.SampleRate)

	logger := in.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if nominal := in.Range.EndSample - in.Range.StartSample; stream.TotalSamples != nominal {
		// Frame boundaries rarely land exactly on cue points; the
		// difference stays under one frame per edge.
		logger.Debug("track sample span differs from cue-nominal span",
			slog.Int("track", in.Range.Number),
			slog.Uint64("nominal", nominal),
			slog.Uint64("actual", stream.TotalSamples))
	}

	w := binio.NewWriter(dst)
	w.String("fLaC")
	writeStreamInfo(w, false, stream)
	if err := writeVorbisComment(w, false, in.Tags, in.Range.Number); err != nil {
		return 0, err
	}
	writeSeekTable(w, false, points)
	for _, pic := range in.Pictures {
		writePicture(w, false, pic)
	}
	writePadding(w, true, in.Padding)
	if err := w.Err(); err != nil {
		return 0, &types.IoFailureError{Track: in.Range.Number, Op: "write", Err: err}
	}

	// The compressed frames, byte for byte.
	section := io.NewSectionReader(src, audioStart+in.Range.StartOffset, in.Range.EndOffset-in.Range.StartOffset)
	if _, err := io.Copy(dst, section); err != nil {
		return 0, &types.IoFailureError{Track: in.Range.Number, Op: "copy", Err: err}
	}
	return stream.TotalSamples, nil
}

// trackStreamDescription recomputes the stream description for one
// track: format fields carry over, structural bounds are rescanned from
// the copied frames, total samples is the actual covered span (decoders
// must agree with the byte content, not the cue sheet), and the MD5 is
// zeroed since it covers the whole source's decoded audio.
func trackStreamDescription(src types.StreamDescription, entries []types.FrameIndexEntry, rng types.ResolvedTrackRange) types.StreamDescription {
	out := types.StreamDescription{
		SampleRate:    src.SampleRate,
		Channels:      src.Channels,
		BitsPerSample: src.BitsPerSample,
	}
	for i, e := range entries {
		frameEnd := rng.EndOffset
		if i+1 < len(entries) {
			frameEnd = entries[i+1].Offset
		}
		frameSize := uint32(frameEnd - e.Offset)
		blockSize := uint16(e.SampleCount)

		if out.MinFrameSize == 0 || frameSize < out.MinFrameSize {
			out.MinFrameSize = frameSize
		}
		if frameSize > out.MaxFrameSize {
			out.MaxFrameSize = frameSize
		}
		if out.MinBlockSize == 0 || blockSize < out.MinBlockSize {
			out.MinBlockSize = blockSize
		}
		if blockSize > out.MaxBlockSize {
			out.MaxBlockSize = blockSize
		}
	}
	out.TotalSamples = entries[len(entries)-1].End() - entries[0].StartSample
	return out
}

// buildSeekTable re-walks the copied frame entries and emits one seek
// point per interval, with sample numbers and byte offsets translated
// to the new file: samples relative to the track's first copied frame,
// offsets relative to the first frame byte.
func buildSeekTable(entries []types.FrameIndexEntry, rng types.ResolvedTrackRange, sampleRate uint32) []types.SeekPoint {
	interval := uint64(sampleRate) * seekPointIntervalSeconds
	var points []types.SeekPoint
	var nextTarget uint64
	base := entries[0].StartSample
	for _, e := range entries {
		rel := e.StartSample - base
		if len(points) > 0 && rel < nextTarget {
			continue
		}
		points = append(points, types.SeekPoint{
			Sample:       rel,
			Offset:       uint64(e.Offset - rng.StartOffset),
			FrameSamples: uint16(e.SampleCount),
		})
		nextTarget = rel + interval
	}
	return points
}
