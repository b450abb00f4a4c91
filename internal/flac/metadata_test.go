package flac

import (
	"bytes"
	"errors"
	"testing"

	"github.com/simonhull/tracksplit/internal/flactest"
	"github.com/simonhull/tracksplit/internal/types"
)

var testStream = flactest.Stream{
	SampleRate:    44100,
	Channels:      2,
	BitsPerSample: 16,
	TotalSamples:  88200,
	MinBlockSize:  4096,
	MaxBlockSize:  4096,
}

var testTracks = []flactest.Track{
	{Number: 1, StartSample: 0},
	{Number: 2, StartSample: 44100},
}

func readTestMetadata(t *testing.T, data []byte) *Metadata {
	t.Helper()
	meta, err := ReadMetadata(bytes.NewReader(data), int64(len(data)), "test.flac")
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	return meta
}

func TestReadMetadata(t *testing.T) {
	data, audioStart := flactest.Disc(testStream, 4096, testTracks, []string{
		"ALBUM=Two Songs",
		"ARTIST=Somebody",
	})
	meta := readTestMetadata(t, data)

	s := meta.Stream
	if s.SampleRate != 44100 || s.Channels != 2 || s.BitsPerSample != 16 {
		t.Errorf("stream = %d Hz, %d ch, %d bit", s.SampleRate, s.Channels, s.BitsPerSample)
	}
	if s.TotalSamples != 88200 {
		t.Errorf("total samples = %d, want 88200", s.TotalSamples)
	}
	if meta.AudioStart != audioStart {
		t.Errorf("audio start = %d, want %d", meta.AudioStart, audioStart)
	}

	if meta.Vendor != "flactest" {
		t.Errorf("vendor = %q", meta.Vendor)
	}
	if got := meta.Tags.GetFirst("ALBUM"); got != "Two Songs" {
		t.Errorf("ALBUM = %q", got)
	}

	audio := meta.CueSheet.AudioTracks()
	if len(audio) != 2 {
		t.Fatalf("audio tracks = %d, want 2", len(audio))
	}
	if audio[0].Number != 1 || audio[0].StartSample != 0 {
		t.Errorf("track 1 = %+v", audio[0])
	}
	if audio[1].Number != 2 || audio[1].StartSample != 44100 {
		t.Errorf("track 2 = %+v", audio[1])
	}
	if leadOut, ok := meta.CueSheet.LeadOut(); !ok || leadOut != 88200 {
		t.Errorf("lead-out = %d, %v", leadOut, ok)
	}
}

func TestReadMetadataNotFLAC(t *testing.T) {
	data := []byte("OggS this is not a FLAC stream at all")
	_, err := ReadMetadata(bytes.NewReader(data), int64(len(data)), "in.ogg")
	var unsupported *types.UnsupportedEncodingError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedEncodingError", err)
	}
}

func TestReadMetadataTruncated(t *testing.T) {
	data, _ := flactest.Disc(testStream, 4096, testTracks, nil)
	for _, cut := range []int{0, 2, 4, 6, 20, 41} {
		_, err := ReadMetadata(bytes.NewReader(data[:cut]), int64(cut), "test.flac")
		if err == nil {
			t.Errorf("cut at %d: expected error", cut)
		}
	}
}

func TestReadMetadataMissingCueSheet(t *testing.T) {
	var data []byte
	data = append(data, "fLaC"...)
	data = append(data, flactest.BlockHeader(true, 0, 34)...)
	data = append(data, flactest.StreamInfoBody(testStream)...)
	data = append(data, flactest.Frames(testStream, 4096)...)

	_, err := ReadMetadata(bytes.NewReader(data), int64(len(data)), "plain.flac")
	var missing *types.MissingCueSheetError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingCueSheetError", err)
	}
}

func TestReadMetadataMissingStreamInfo(t *testing.T) {
	cue := flactest.CueSheetBody(testTracks, 88200)
	var data []byte
	data = append(data, "fLaC"...)
	data = append(data, flactest.BlockHeader(true, 5, uint32(len(cue)))...)
	data = append(data, cue...)
	data = append(data, 0xFF, 0xF8)

	_, err := ReadMetadata(bytes.NewReader(data), int64(len(data)), "test.flac")
	var malformed *types.MalformedContainerError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedContainerError", err)
	}
}

func TestReadMetadataZeroSampleRate(t *testing.T) {
	bad := testStream
	bad.SampleRate = 0
	var data []byte
	data = append(data, "fLaC"...)
	data = append(data, flactest.BlockHeader(true, 0, 34)...)
	data = append(data, flactest.StreamInfoBody(bad)...)
	data = append(data, 0xFF, 0xF8)

	_, err := ReadMetadata(bytes.NewReader(data), int64(len(data)), "test.flac")
	var malformed *types.MalformedContainerError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedContainerError", err)
	}
}

func TestReadMetadataBlockPastEOF(t *testing.T) {
	var data []byte
	data = append(data, "fLaC"...)
	data = append(data, flactest.BlockHeader(true, 0, 34)...)
	data = append(data, flactest.StreamInfoBody(testStream)[:10]...)

	_, err := ReadMetadata(bytes.NewReader(data), int64(len(data)), "test.flac")
	var malformed *types.MalformedContainerError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedContainerError", err)
	}
}
