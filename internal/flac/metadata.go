// Package flac implements frame-accurate splitting of FLAC containers
// with embedded cue sheets: metadata parsing, frame indexing, boundary
// resolution, and per-track container assembly. Compressed frames are
// never decoded; they are copied byte-for-byte.
package flac

import (
	"io"
	"strings"

	"github.com/simonhull/tracksplit/internal/binio"
	"github.com/simonhull/tracksplit/internal/types"
)

// Metadata block types.
const (
	blockTypeStreamInfo    = 0
	blockTypePadding       = 1
	blockTypeApplication   = 2
	blockTypeSeekTable     = 3
	blockTypeVorbisComment = 4
	blockTypeCueSheet      = 5
	blockTypePicture       = 6
	blockTypeInvalid       = 127
)

// Metadata is everything the splitter needs from the source container's
// metadata block area.
type Metadata struct {
	Stream     types.StreamDescription
	CueSheet   *types.CueSheet
	Tags       *types.Tags
	Vendor     string
	Pictures   []types.Picture
	AudioStart int64 // absolute byte offset of the first frame
}

// ReadMetadata parses the source container's metadata blocks. It reads
// nothing past the end of the metadata area and has no other side
// effects. Returns UnsupportedEncodingError when the container is not a
// FLAC stream, MalformedContainerError when mandatory structure is
// missing or invalid, and MissingCueSheetError when there is no embedded
// cue sheet to split by.
func ReadMetadata(src io.ReaderAt, size int64, path string) (*Metadata, error) {
	r := binio.NewReader(src, size, path, 0)

	marker, err := r.String(4, "stream marker")
	if err != nil {
		return nil, &types.MalformedContainerError{Path: path, Offset: 0, Reason: "shorter than a stream marker"}
	}
	if marker != "fLaC" {
		return nil, &types.UnsupportedEncodingError{Path: path, Reason: "stream marker is not fLaC"}
	}

	meta := &Metadata{Tags: types.NewTags()}
	seenStreamInfo := false

	for {
		headerOffset := r.Offset()
		header, err := r.Uint32("metadata block header")
		if err != nil {
			return nil, &types.MalformedContainerError{
				Path: path, Offset: headerOffset, Reason: "truncated metadata block header",
			}
		}
		isLast := header>>31 == 1
		blockType := uint8(header >> 24 & 0x7F)
		blockLength := int64(header & 0x00FFFFFF)
		blockStart := r.Offset()

		if blockStart+blockLength > size {
			return nil, &types.MalformedContainerError{
				Path: path, Offset: headerOffset, Reason: "metadata block extends past end of file",
			}
		}
		if blockType == blockTypeInvalid {
			return nil, &types.MalformedContainerError{
				Path: path, Offset: headerOffset, Reason: "invalid metadata block type 127",
			}
		}

		switch blockType {
		case blockTypeStreamInfo:
			if err := parseStreamInfo(r, blockLength, meta); err != nil {
				return nil, err
			}
			seenStreamInfo = true

		case blockTypeVorbisComment:
			if err := parseVorbisComment(r, meta); err != nil {
				return nil, err
			}

		case blockTypeCueSheet:
			sheet, err := parseCueSheet(r, blockStart, blockLength)
			if err != nil {
				return nil, err
			}
			meta.CueSheet = sheet

		case blockTypePicture:
			pic, err := parsePicture(r)
			if err != nil {
				return nil, err
			}
			meta.Pictures = append(meta.Pictures, pic)

		case blockTypePadding, blockTypeApplication, blockTypeSeekTable:
			// Not needed for splitting. The seek table is rebuilt per
			// track anyway.

		default:
			// Unknown block type, skip it.
		}

		r.Seek(blockStart + blockLength)
		if isLast {
			break
		}
	}

	if !seenStreamInfo {
		return nil, &types.MalformedContainerError{Path: path, Offset: 4, Reason: "missing STREAMINFO block"}
	}
	if meta.CueSheet == nil || len(meta.CueSheet.AudioTracks()) == 0 {
		return nil, &types.MissingCueSheetError{Path: path}
	}

	meta.AudioStart = r.Offset()
	if meta.AudioStart >= size {
		return nil, &types.MalformedContainerError{
			Path: path, Offset: meta.AudioStart, Reason: "no audio frames after metadata",
		}
	}
	return meta, nil
}

// parseStreamInfo extracts the StreamDescription from a STREAMINFO block.
// The reader is positioned at the block's first byte.
func parseStreamInfo(r *binio.Reader, blockLength int64, meta *Metadata) error {
	if blockLength != 34 {
		return &types.MalformedContainerError{
			Path: r.Path(), Offset: r.Offset(),
			Reason: "STREAMINFO block is not 34 bytes",
		}
	}
	data, err := r.Bytes(34, "STREAMINFO block")
	if err != nil {
		return &types.MalformedContainerError{Path: r.Path(), Offset: r.Offset(), Reason: "truncated STREAMINFO"}
	}

	s := &meta.Stream
	s.MinBlockSize = uint16(data[0])<<8 | uint16(data[1])
	s.MaxBlockSize = uint16(data[2])<<8 | uint16(data[3])
	s.MinFrameSize = uint32(data[4])<<16 | uint32(data[5])<<8 | uint32(data[6])
	s.MaxFrameSize = uint32(data[7])<<16 | uint32(data[8])<<8 | uint32(data[9])

	// Bytes 10-17 pack sample rate (20 bits), channels-1 (3 bits),
	// bits-per-sample-1 (5 bits), and total samples (36 bits).
	var packed uint64
	for _, b := range data[10:18] {
		packed = packed<<8 | uint64(b)
	}
	s.SampleRate = uint32(packed >> 44 & 0xFFFFF)
	s.Channels = uint8(packed>>41&0x7) + 1
	s.BitsPerSample = uint8(packed>>36&0x1F) + 1
	s.TotalSamples = packed & 0xFFFFFFFFF
	copy(s.MD5[:], data[18:34])

	if s.SampleRate == 0 {
		return &types.MalformedContainerError{
			Path: r.Path(), Offset: r.Offset() - 34, Reason: "STREAMINFO sample rate is zero",
		}
	}
	return nil
}

// parseVorbisComment extracts the vendor string and the album-level tag
// mapping from a VORBIS_COMMENT block. Entries without a '=' separator
// are tolerated and skipped.
func parseVorbisComment(r *binio.Reader, meta *Metadata) error {
	vendorLength, err := r.Uint32LE("vendor string length")
	if err != nil {
		return malformedComment(r, err)
	}
	vendor, err := r.String(int(vendorLength), "vendor string")
	if err != nil {
		return malformedComment(r, err)
	}
	meta.Vendor = vendor

	count, err := r.Uint32LE("comment count")
	if err != nil {
		return malformedComment(r, err)
	}
	for i := uint32(0); i < count; i++ {
		length, err := r.Uint32LE("comment length")
		if err != nil {
			return malformedComment(r, err)
		}
		comment, err := r.String(int(length), "comment")
		if err != nil {
			return malformedComment(r, err)
		}
		key, value, ok := strings.Cut(comment, "=")
		if !ok || key == "" {
			continue
		}
		meta.Tags.Add(key, value)
	}
	return nil
}

func malformedComment(r *binio.Reader, err error) error {
	return &types.MalformedContainerError{
		Path: r.Path(), Offset: r.Offset(), Reason: "truncated VORBIS_COMMENT: " + err.Error(),
	}
}

// parsePicture reads a PICTURE block so it can be carried over into
// every output track.
func parsePicture(r *binio.Reader) (types.Picture, error) {
	var pic types.Picture
	fail := func(err error) (types.Picture, error) {
		return types.Picture{}, &types.MalformedContainerError{
			Path: r.Path(), Offset: r.Offset(), Reason: "truncated PICTURE: " + err.Error(),
		}
	}

	picType, err := r.Uint32("picture type")
	if err != nil {
		return fail(err)
	}
	mimeLength, err := r.Uint32("MIME type length")
	if err != nil {
		return fail(err)
	}
	mime, err := r.String(int(mimeLength), "MIME type")
	if err != nil {
		return fail(err)
	}
	descLength, err := r.Uint32("description length")
	if err != nil {
		return fail(err)
	}
	desc, err := r.String(int(descLength), "description")
	if err != nil {
		return fail(err)
	}
	width, err := r.Uint32("width")
	if err != nil {
		return fail(err)
	}
	height, err := r.Uint32("height")
	if err != nil {
		return fail(err)
	}
	depth, err := r.Uint32("color depth")
	if err != nil {
		return fail(err)
	}
	colors, err := r.Uint32("indexed colors")
	if err != nil {
		return fail(err)
	}
	dataLength, err := r.Uint32("picture data length")
	if err != nil {
		return fail(err)
	}
	data, err := r.Bytes(int(dataLength), "picture data")
	if err != nil {
		return fail(err)
	}

	pic = types.Picture{
		Type:        picType,
		MIMEType:    mime,
		Description: desc,
		Width:       width,
		Height:      height,
		Depth:       depth,
		NumColors:   colors,
		Data:        data,
	}
	return pic, nil
}
