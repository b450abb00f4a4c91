package tracksplit

import (
	"log/slog"
)

// Option configures splitting behavior.
//
// Options use the functional options pattern:
//
//	results, err := tracksplit.Split(ctx, "disc.flac",
//	    tracksplit.WithOutputDir("/music"),
//	    tracksplit.WithAtomicWrites(),
//	)
type Option func(*splitOptions)

type splitOptions struct {
	outputDir        string
	filename         FilenameFunc
	trackTags        map[int]*Tags
	padding          uint32
	atomicWrites     bool
	trackConcurrency int
	workers          int
	logger           *slog.Logger
}

func defaultOptions() *splitOptions {
	return &splitOptions{
		outputDir:        ".",
		filename:         DefaultFilename,
		padding:          2048,
		trackConcurrency: 1,
		logger:           slog.New(slog.DiscardHandler),
	}
}

// WithOutputDir sets the base directory for output tracks. Filenames
// produced by the filename function are joined under it. Defaults to
// the current directory.
func WithOutputDir(dir string) Option {
	return func(o *splitOptions) {
		if dir != "" {
			o.outputDir = dir
		}
	}
}

// WithFilenameFunc sets the function mapping a track number and its
// merged tags to an output path relative to the output directory.
// Defaults to DefaultFilename.
func WithFilenameFunc(fn FilenameFunc) Option {
	return func(o *splitOptions) {
		if fn != nil {
			o.filename = fn
		}
	}
}

// WithTrackTags supplies a per-track tag override side mapping, keyed
// by 1-based track number. These take precedence over both album-level
// tags and any "KEY[N]" convention overrides found in the source.
func WithTrackTags(overrides map[int]*Tags) Option {
	return func(o *splitOptions) {
		o.trackTags = overrides
	}
}

// WithMetadataPadding sets the size of the PADDING block written after
// each output's metadata, leaving room for later tag edits without
// rewriting the file. Defaults to 2048 bytes.
func WithMetadataPadding(bytes uint32) Option {
	return func(o *splitOptions) {
		o.padding = bytes
	}
}

// WithAtomicWrites makes each track write to a temporary file in the
// destination directory and rename it into place on success, so a
// failure mid-track leaves no partial output behind. Off by default:
// partial writes on failure are otherwise left for the caller to clean
// up.
func WithAtomicWrites() Option {
	return func(o *splitOptions) {
		o.atomicWrites = true
	}
}

// WithTrackConcurrency allows up to n tracks of one input file to be
// assembled concurrently. The tracks share only the read-only source
// and immutable resolved ranges, so this is safe; it is purely an
// optimization. Defaults to 1 (sequential).
func WithTrackConcurrency(n int) Option {
	return func(o *splitOptions) {
		if n > 0 {
			o.trackConcurrency = n
		}
	}
}

// WithWorkers bounds how many input files SplitMany processes in
// parallel. Defaults to the number of CPUs.
func WithWorkers(n int) Option {
	return func(o *splitOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger sets the structured logger used for progress and
// diagnostic events. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *splitOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
