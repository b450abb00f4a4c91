package tracksplit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/tracksplit/internal/flac"
	"github.com/simonhull/tracksplit/internal/types"
)

// TrackResult identifies one written output track.
type TrackResult = types.TrackResult

// FileResult is the outcome of splitting one input file within a batch.
type FileResult struct {
	Path   string
	Tracks []TrackResult
	Err    error
}

// Split splits one FLAC file with an embedded cue sheet into one output
// file per cue track, returning the written tracks in cue order.
//
// The engine performs four sequential stages over the open source:
// metadata parsing, frame indexing, boundary resolution, and per-track
// assembly. Any stage failure aborts this file and is returned as a
// typed error identifying the stage and, past resolution, the track.
// Already-written tracks are not removed on failure unless
// WithAtomicWrites is set.
func Split(ctx context.Context, path string, opts ...Option) ([]TrackResult, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger.With(slog.String("file", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, &types.IoFailureError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return nil, &types.IoFailureError{Path: path, Op: "stat", Err: err}
	}
	size := stat.Size()

	meta, err := flac.ReadMetadata(f, size, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed metadata",
		slog.Int("cue_tracks", len(meta.CueSheet.AudioTracks())),
		slog.Uint64("total_samples", meta.Stream.TotalSamples),
		slog.Int64("audio_start", meta.AudioStart))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := flac.IndexFrames(f, size, path, meta)
	if err != nil {
		return nil, err
	}
	logger.Debug("indexed frames", slog.Int("frames", len(entries)))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranges, err := flac.ResolveBoundaries(entries, meta.CueSheet, size-meta.AudioStart, meta.Stream.TotalSamples, path)
	if err != nil {
		return nil, err
	}

	// Album tags minus source-file housekeeping, plus the source's own
	// "KEY[N]" per-track convention; explicit WithTrackTags overrides
	// win over both.
	album, overrides := TrackOverrides(meta.Tags)

	results := make([]TrackResult, len(ranges))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.trackConcurrency)
	for i, rng := range ranges {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			merged := album.Merge(overrides[rng.Number]).Merge(o.trackTags[rng.Number])
			result, err := writeTrack(f, meta, entries, rng, merged, o)
			if err != nil {
				return err
			}
			logger.Info("wrote track",
				slog.Int("track", result.Number),
				slog.String("path", result.Path),
				slog.Uint64("samples", result.Samples))
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("split complete", slog.Int("tracks", len(results)))
	return results, nil
}

// writeTrack assembles one output file for an already-resolved range.
func writeTrack(src *os.File, meta *flac.Metadata, entries []types.FrameIndexEntry, rng types.ResolvedTrackRange, tags *Tags, o *splitOptions) (TrackResult, error) {
	finalPath := filepath.Join(o.outputDir, o.filename(rng.Number, tags))
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return TrackResult{}, &types.IoFailureError{Path: finalPath, Track: rng.Number, Op: "mkdir", Err: err}
	}

	writePath := finalPath
	if o.atomicWrites {
		writePath = fmt.Sprintf("%s.%.8s.tmp", finalPath, uuid.NewString())
	}
	out, err := os.Create(writePath)
	if err != nil {
		return TrackResult{}, &types.IoFailureError{Path: writePath, Track: rng.Number, Op: "create", Err: err}
	}

	samples, err := flac.AssembleTrack(src, meta.AudioStart, flac.AssembleInput{
		Stream:   meta.Stream,
		Range:    rng,
		Entries:  entries,
		Tags:     tags,
		Pictures: meta.Pictures,
		Padding:  o.padding,
		Logger:   o.logger,
	}, out)
	if err != nil {
		out.Close()
		if o.atomicWrites {
			os.Remove(writePath)
		}
		return TrackResult{}, err
	}
	if err := out.Close(); err != nil {
		return TrackResult{}, &types.IoFailureError{Path: writePath, Track: rng.Number, Op: "close", Err: err}
	}
	if o.atomicWrites {
		if err := os.Rename(writePath, finalPath); err != nil {
			os.Remove(writePath)
			return TrackResult{}, &types.IoFailureError{Path: finalPath, Track: rng.Number, Op: "rename", Err: err}
		}
	}
	return TrackResult{Number: rng.Number, Path: finalPath, Samples: samples}, nil
}

// SplitMany splits several input files concurrently, bounded by
// WithWorkers (default: number of CPUs). Failures are collected per
// file, never raised as a batch error: one corrupt disc must not stop
// the others. Results are returned in input order.
func SplitMany(ctx context.Context, paths []string, opts ...Option) []FileResult {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	workers := o.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FileResult{Path: path, Err: err}
				return nil
			}
			tracks, err := Split(gctx, path, opts...)
			results[i] = FileResult{Path: path, Tracks: tracks, Err: err}
			return nil
		})
	}
	g.Wait() // errors live in results
	return results
}
