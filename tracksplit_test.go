package tracksplit_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simonhull/tracksplit"
	"github.com/simonhull/tracksplit/internal/flactest"
)

var discStream = flactest.Stream{
	SampleRate:    44100,
	Channels:      2,
	BitsPerSample: 16,
	TotalSamples:  88200,
	MinBlockSize:  4096,
	MaxBlockSize:  4096,
}

// writeDisc writes a synthetic two-track album to dir and returns its
// path, the full file bytes, and the offset of the first frame.
func writeDisc(t *testing.T, dir string, comments []string) (string, []byte, int64) {
	t.Helper()
	data, audioStart := flactest.Disc(discStream, 4096, []flactest.Track{
		{Number: 1, StartSample: 0},
		{Number: 2, StartSample: 44100},
	}, comments)
	path := filepath.Join(dir, "album.flac")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path, data, audioStart
}

// flatNames numbers outputs 01.flac, 02.flac directly in the output dir.
func flatNames(track int, tags *tracksplit.Tags) string {
	return fmt.Sprintf("%02d.flac", track)
}

// audioRegion returns the bytes after the last metadata block.
func audioRegion(t *testing.T, data []byte) []byte {
	t.Helper()
	if !bytes.HasPrefix(data, []byte("fLaC")) {
		t.Fatal("not a FLAC container")
	}
	pos := 4
	for {
		header := data[pos : pos+4]
		length := int(header[1])<<16 | int(header[2])<<8 | int(header[3])
		pos += 4 + length
		if header[0]&0x80 != 0 {
			return data[pos:]
		}
	}
}

func TestSplitTwoTracks(t *testing.T) {
	dir := t.TempDir()
	path, data, audioStart := writeDisc(t, dir, []string{
		"ALBUM=Two Songs",
		"ARTIST=Somebody",
		"TITLE[1]=First Song",
		"TITLE[2]=Second Song",
		"CUESHEET=FILE \"album.wav\" WAVE",
	})
	out := filepath.Join(dir, "out")

	results, err := tracksplit.Split(context.Background(), path,
		tracksplit.WithOutputDir(out),
		tracksplit.WithFilenameFunc(flatNames),
	)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Number != 1 || results[1].Number != 2 {
		t.Errorf("track order = %d, %d", results[0].Number, results[1].Number)
	}
	if results[0].Samples+results[1].Samples != 88200 {
		t.Errorf("sample split = %d + %d, want total 88200", results[0].Samples, results[1].Samples)
	}

	// Concatenating the outputs' frame regions must reproduce the
	// source's frame region byte for byte.
	var joined []byte
	for _, r := range results {
		track, err := os.ReadFile(r.Path)
		if err != nil {
			t.Fatal(err)
		}
		joined = append(joined, audioRegion(t, track)...)
	}
	if !bytes.Equal(joined, data[audioStart:]) {
		t.Fatalf("joined frame regions (%d bytes) differ from source (%d bytes)",
			len(joined), len(data)-int(audioStart))
	}
}

func TestSplitAppliesTrackTagOverrides(t *testing.T) {
	dir := t.TempDir()
	path, _, _ := writeDisc(t, dir, []string{
		"ALBUM=Two Songs",
		"TITLE[2]=Second Song",
		"CUESHEET=FILE \"album.wav\" WAVE",
	})

	results, err := tracksplit.Split(context.Background(), path,
		tracksplit.WithOutputDir(filepath.Join(dir, "out")),
		tracksplit.WithFilenameFunc(flatNames),
	)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	second, err := os.ReadFile(results[1].Path)
	if err != nil {
		t.Fatal(err)
	}
	meta := string(second[:len(second)-len(audioRegion(t, second))])
	if !strings.Contains(meta, "TITLE=Second Song") {
		t.Error("track 2 missing its TITLE override")
	}
	if strings.Contains(meta, "TITLE[2]") {
		t.Error("raw override key leaked into output")
	}
	if strings.Contains(meta, "CUESHEET=") {
		t.Error("CUESHEET dump leaked into output")
	}
	if !strings.Contains(meta, "ALBUM=Two Songs") {
		t.Error("album tag missing from output")
	}

	first, err := os.ReadFile(results[0].Path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(first), "TITLE=Second Song") {
		t.Error("track 1 received track 2's title")
	}
}

func TestSplitExplicitTagsWin(t *testing.T) {
	dir := t.TempDir()
	path, _, _ := writeDisc(t, dir, []string{"TITLE[1]=Embedded Name"})

	override := tracksplit.NewTags()
	override.Add("TITLE", "Caller Name")
	results, err := tracksplit.Split(context.Background(), path,
		tracksplit.WithOutputDir(filepath.Join(dir, "out")),
		tracksplit.WithFilenameFunc(flatNames),
		tracksplit.WithTrackTags(map[int]*tracksplit.Tags{1: override}),
	)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	first, err := os.ReadFile(results[0].Path)
	if err != nil {
		t.Fatal(err)
	}
	meta := string(first[:len(first)-len(audioRegion(t, first))])
	if !strings.Contains(meta, "TITLE=Caller Name") {
		t.Error("explicit track tags did not win")
	}
	if strings.Contains(meta, "Embedded Name") {
		t.Error("embedded override not replaced")
	}
}

func TestSplitCorruptedStream(t *testing.T) {
	dir := t.TempDir()
	path, data, audioStart := writeDisc(t, dir, nil)
	data[audioStart+(int64(len(data))-audioStart)/2] ^= 0x55
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")

	_, err := tracksplit.Split(context.Background(), path,
		tracksplit.WithOutputDir(out),
		tracksplit.WithFilenameFunc(flatNames),
	)
	var lost *tracksplit.FrameSyncLostError
	if !errors.As(err, &lost) {
		t.Fatalf("err = %v, want FrameSyncLostError", err)
	}
	if entries, _ := os.ReadDir(out); len(entries) != 0 {
		t.Errorf("%d outputs written despite sync loss", len(entries))
	}
}

func TestSplitMissingFile(t *testing.T) {
	_, err := tracksplit.Split(context.Background(), filepath.Join(t.TempDir(), "nope.flac"))
	var ioErr *tracksplit.IoFailureError
	if !errors.As(err, &ioErr) {
		t.Fatalf("err = %v, want IoFailureError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("cause not preserved")
	}
}

func TestSplitAtomicWritesLeaveNoTemp(t *testing.T) {
	dir := t.TempDir()
	path, _, _ := writeDisc(t, dir, nil)
	out := filepath.Join(dir, "out")

	results, err := tracksplit.Split(context.Background(), path,
		tracksplit.WithOutputDir(out),
		tracksplit.WithFilenameFunc(flatNames),
		tracksplit.WithAtomicWrites(),
	)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(results) {
		t.Errorf("output dir holds %d entries, want %d", len(entries), len(results))
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSplitCanceledContext(t *testing.T) {
	dir := t.TempDir()
	path, _, _ := writeDisc(t, dir, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tracksplit.Split(ctx, path, tracksplit.WithOutputDir(filepath.Join(dir, "out")))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSplitMany(t *testing.T) {
	dir := t.TempDir()
	good, _, _ := writeDisc(t, dir, nil)
	bad := filepath.Join(dir, "missing.flac")

	results := tracksplit.SplitMany(context.Background(), []string{good, bad},
		tracksplit.WithOutputDir(filepath.Join(dir, "out")),
		tracksplit.WithFilenameFunc(flatNames),
	)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Path != good || results[1].Path != bad {
		t.Error("results not in input order")
	}
	if results[0].Err != nil {
		t.Errorf("good file failed: %v", results[0].Err)
	}
	if len(results[0].Tracks) != 2 {
		t.Errorf("good file produced %d tracks", len(results[0].Tracks))
	}
	if results[1].Err == nil {
		t.Error("missing file reported no error")
	}
}
