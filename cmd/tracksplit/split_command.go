package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/simonhull/tracksplit"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "split <file.flac> [more.flac ...]",
		Short: "Split cue-sheet-tagged FLAC files into per-track files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			logger := ctx.logger(cfg)
			opts := ctx.engineOptions(cfg, logger)

			results := tracksplit.SplitMany(cmd.Context(), args, opts...)

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", paint(text.FgRed, "FAIL"), r.Path, r.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d tracks\n", paint(text.FgGreen, "OK"), r.Path, len(r.Tracks))
				for _, t := range r.Tracks {
					fmt.Fprintf(cmd.OutOrStdout(), "  %2d  %s\n", t.Number, t.Path)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}
}

// paint colors s when stdout is a terminal.
func paint(color text.Color, s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	return color.Sprint(s)
}
