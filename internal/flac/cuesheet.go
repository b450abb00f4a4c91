package flac

import (
	"strings"

	"github.com/simonhull/tracksplit/internal/binio"
	"github.com/simonhull/tracksplit/internal/types"
)

// CUESHEET block layout: a 128-byte media catalog number, 64-bit lead-in
// sample count, a flags byte, 258 reserved bytes, then the track table.
// All sample offsets are relative to the start of the audio.
const cueSheetMinLength = 128 + 8 + 1 + 258 + 1

// parseCueSheet parses a CUESHEET metadata block. The reader is
// positioned at the block's first byte; blockStart/blockLength bound it.
func parseCueSheet(r *binio.Reader, blockStart, blockLength int64) (*types.CueSheet, error) {
	malformed := func(reason string) error {
		return &types.MalformedContainerError{Path: r.Path(), Offset: r.Offset(), Reason: reason}
	}
	if blockLength < cueSheetMinLength {
		return nil, malformed("CUESHEET block too short")
	}
	blockEnd := blockStart + blockLength

	mcn, err := r.String(128, "media catalog number")
	if err != nil {
		return nil, malformed("truncated media catalog number")
	}
	leadIn, err := r.Uint64("lead-in samples")
	if err != nil {
		return nil, malformed("truncated lead-in")
	}
	flags, err := r.Uint8("cue sheet flags")
	if err != nil {
		return nil, malformed("truncated flags")
	}
	r.Skip(258)
	trackCount, err := r.Uint8("track count")
	if err != nil {
		return nil, malformed("truncated track count")
	}

	sheet := &types.CueSheet{
		MediaCatalogNumber: strings.TrimRight(mcn, "\x00"),
		LeadIn:             leadIn,
		IsCD:               flags&0x80 != 0,
	}
	for i := uint8(0); i < trackCount; i++ {
		track, err := parseCueTrack(r, blockEnd)
		if err != nil {
			return nil, err
		}
		sheet.Tracks = append(sheet.Tracks, track)
	}
	return sheet, nil
}

// parseCueTrack parses one track entry: a 64-bit start offset, track
// number, 12-byte ISRC, flags, 13 reserved bytes, then the index points.
func parseCueTrack(r *binio.Reader, blockEnd int64) (types.CueTrack, error) {
	var track types.CueTrack
	malformed := func(reason string) (types.CueTrack, error) {
		return types.CueTrack{}, &types.MalformedContainerError{
			Path: r.Path(), Offset: r.Offset(), Reason: reason,
		}
	}
	if r.Offset()+36 > blockEnd {
		return malformed("cue track entry exceeds block bounds")
	}

	startSample, err := r.Uint64("track start offset")
	if err != nil {
		return malformed("truncated track start offset")
	}
	number, err := r.Uint8("track number")
	if err != nil {
		return malformed("truncated track number")
	}
	isrc, err := r.String(12, "ISRC")
	if err != nil {
		return malformed("truncated ISRC")
	}
	flags, err := r.Uint8("track flags")
	if err != nil {
		return malformed("truncated track flags")
	}
	r.Skip(13)
	indexCount, err := r.Uint8("index point count")
	if err != nil {
		return malformed("truncated index point count")
	}

	track = types.CueTrack{
		StartSample: startSample,
		Number:      int(number),
		ISRC:        strings.TrimRight(isrc, "\x00"),
		IsAudio:     flags&0x80 == 0,
		PreEmphasis: flags&0x40 != 0,
	}
	for j := uint8(0); j < indexCount; j++ {
		if r.Offset()+12 > blockEnd {
			return malformed("cue index point exceeds block bounds")
		}
		offset, err := r.Uint64("index offset")
		if err != nil {
			return malformed("truncated index offset")
		}
		indexNumber, err := r.Uint8("index number")
		if err != nil {
			return malformed("truncated index number")
		}
		r.Skip(3)
		track.Indices = append(track.Indices, types.CueIndex{Offset: offset, Number: indexNumber})
	}
	return track, nil
}
