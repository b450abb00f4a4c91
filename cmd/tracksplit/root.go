package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/tracksplit"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var outputDirFlag string
	var verboseFlag bool

	ctx := &commandContext{
		configPath: &configFlag,
		outputDir:  &outputDirFlag,
		verbose:    &verboseFlag,
	}

	rootCmd := &cobra.Command{
		Use:           "tracksplit",
		Short:         "Split cue-sheet-tagged FLAC discs into per-track files",
		Long: "tracksplit splits FLAC files carrying an embedded CUESHEET into one\n" +
			"FLAC file per track, copying every compressed frame byte-for-byte.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "configuration file path")
	rootCmd.PersistentFlags().StringVarP(&outputDirFlag, "output-dir", "o", "", "base directory for output tracks")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newSplitCommand(ctx))
	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))

	return rootCmd
}

// commandContext carries persistent flag state and lazily loaded
// configuration shared by the subcommands.
type commandContext struct {
	configPath *string
	outputDir  *string
	verbose    *bool

	loaded *Config
}

func (c *commandContext) config() (Config, error) {
	if c.loaded == nil {
		cfg, err := loadConfig(*c.configPath)
		if err != nil {
			return Config{}, err
		}
		if *c.outputDir != "" {
			cfg.OutputDir = *c.outputDir
		}
		if *c.verbose {
			cfg.LogLevel = "debug"
		}
		c.loaded = &cfg
	}
	return *c.loaded, nil
}

func (c *commandContext) logger(cfg Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// engineOptions translates the loaded configuration into engine options.
func (c *commandContext) engineOptions(cfg Config, logger *slog.Logger) []tracksplit.Option {
	opts := []tracksplit.Option{
		tracksplit.WithOutputDir(cfg.OutputDir),
		tracksplit.WithMetadataPadding(cfg.MetadataPadding),
		tracksplit.WithWorkers(cfg.Workers),
		tracksplit.WithTrackConcurrency(cfg.TrackWorkers),
		tracksplit.WithLogger(logger),
	}
	if cfg.FilenameTemplate != "" {
		opts = append(opts, tracksplit.WithFilenameFunc(tracksplit.PatternFilename(cfg.FilenameTemplate)))
	}
	if cfg.AtomicWrites {
		opts = append(opts, tracksplit.WithAtomicWrites())
	}
	return opts
}
