package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/simonhull/tracksplit"
	"github.com/simonhull/tracksplit/internal/flac"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var showFrames bool

	cmd := &cobra.Command{
		Use:   "inspect <file.flac>",
		Short: "Show the stream, cue sheet, and track layout of a FLAC file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd, args[0], showFrames)
		},
	}
	cmd.Flags().BoolVar(&showFrames, "frames", false, "index the audio frames and report frame statistics")
	return cmd
}

func inspect(cmd *cobra.Command, path string, showFrames bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return err
	}

	meta, err := flac.ReadMetadata(f, stat.Size(), path)
	if err != nil {
		return err
	}
	stream := meta.Stream

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", path)
	fmt.Fprintf(out, "  %d Hz, %d ch, %d bit, %d samples (%s)\n",
		stream.SampleRate, stream.Channels, stream.BitsPerSample,
		stream.TotalSamples, sampleDuration(stream.TotalSamples, uint64(stream.SampleRate)))
	if album := meta.Tags.GetFirst("ALBUM"); album != "" {
		fmt.Fprintf(out, "  album: %s\n", album)
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		t.SetStyle(table.StyleRounded)
	} else {
		t.SetStyle(table.StyleLight)
	}
	t.AppendHeader(table.Row{"Track", "Start Sample", "Start Time", "Title"})
	_, overrides := tracksplit.TrackOverrides(meta.Tags)
	for _, track := range meta.CueSheet.AudioTracks() {
		title := ""
		if o := overrides[track.Number]; o != nil {
			title = o.GetFirst("TITLE")
		}
		t.AppendRow(table.Row{
			track.Number, track.StartSample,
			sampleDuration(track.StartSample, uint64(stream.SampleRate)), title,
		})
	}
	t.Render()

	if showFrames {
		entries, err := flac.IndexFrames(f, stat.Size(), path, meta)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %d frames, audio region %d bytes at offset %d\n",
			len(entries), stat.Size()-meta.AudioStart, meta.AudioStart)
	}
	return nil
}

func sampleDuration(samples, rate uint64) time.Duration {
	if rate == 0 {
		return 0
	}
	return (time.Duration(samples) * time.Second / time.Duration(rate)).Round(time.Millisecond)
}
