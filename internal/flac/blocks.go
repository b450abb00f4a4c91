package flac

import (
	"github.com/simonhull/tracksplit/internal/binio"
	"github.com/simonhull/tracksplit/internal/types"
)

// Vendor string written into every output's VORBIS_COMMENT block.
const vendorString = "tracksplit"

// A metadata block length field is 24 bits.
const maxBlockLength = 0x00FFFFFF

const streamInfoBlockLength = 34

// writeBlockHeader writes the 4-byte metadata block header: the is-last
// flag, the 7-bit block type, and the 24-bit body length.
func writeBlockHeader(w *binio.Writer, isLast bool, blockType uint8, length uint32) {
	header := blockType
	if isLast {
		header |= 0x80
	}
	w.Uint8(header)
	w.Uint24(length)
}

// writeStreamInfo serializes a STREAMINFO block.
func writeStreamInfo(w *binio.Writer, isLast bool, s types.StreamDescription) {
	writeBlockHeader(w, isLast, blockTypeStreamInfo, streamInfoBlockLength)
	w.Uint16(s.MinBlockSize)
	w.Uint16(s.MaxBlockSize)
	w.Uint24(s.MinFrameSize)
	w.Uint24(s.MaxFrameSize)

	packed := uint64(s.SampleRate)<<44 |
		uint64(s.Channels-1)<<41 |
		uint64(s.BitsPerSample-1)<<36 |
		s.TotalSamples&0xFFFFFFFFF
	w.Uint64(packed)
	w.Bytes(s.MD5[:])
}

// vorbisCommentLength returns the serialized size of a VORBIS_COMMENT
// block for the given vendor and tags.
func vorbisCommentLength(vendor string, tags *types.Tags) uint32 {
	length := 4 + len(vendor) + 4
	for key, values := range tags.All() {
		for _, v := range values {
			length += 4 + len(key) + 1 + len(v)
		}
	}
	return uint32(length)
}

// writeVorbisComment serializes the merged tag mapping as a
// VORBIS_COMMENT block, one comment entry per value, keys in mapping
// order. Returns TagConflictError when the block cannot fit the
// format's 24-bit block length.
func writeVorbisComment(w *binio.Writer, isLast bool, tags *types.Tags, track int) error {
	length := vorbisCommentLength(vendorString, tags)
	if length > maxBlockLength {
		// Identify the largest contributor; a single oversized value is
		// the usual culprit (embedded logs, lyrics dumps).
		worstKey, worstLen := "", 0
		for key, values := range tags.All() {
			for _, v := range values {
				if len(v) > worstLen {
					worstKey, worstLen = key, len(v)
				}
			}
		}
		return &types.TagConflictError{
			Track: track, Key: worstKey,
			Reason: "merged comment block exceeds the 16 MiB block limit",
		}
	}

	writeBlockHeader(w, isLast, blockTypeVorbisComment, length)
	w.Uint32LE(uint32(len(vendorString)))
	w.String(vendorString)

	count := 0
	for _, values := range tags.All() {
		count += len(values)
	}
	w.Uint32LE(uint32(count))
	for key, values := range tags.All() {
		for _, v := range values {
			w.Uint32LE(uint32(len(key) + 1 + len(v)))
			w.String(key)
			w.String("=")
			w.String(v)
		}
	}
	return nil
}

// writeSeekTable serializes a SEEKTABLE block: 18 bytes per point.
func writeSeekTable(w *binio.Writer, isLast bool, points []types.SeekPoint) {
	writeBlockHeader(w, isLast, blockTypeSeekTable, uint32(len(points)*18))
	for _, p := range points {
		w.Uint64(p.Sample)
		w.Uint64(p.Offset)
		w.Uint16(p.FrameSamples)
	}
}

// writePicture serializes a PICTURE block carried over from the source.
func writePicture(w *binio.Writer, isLast bool, pic types.Picture) {
	length := uint32(4 + 4 + len(pic.MIMEType) + 4 + len(pic.Description) + 4*4 + 4 + len(pic.Data))
	writeBlockHeader(w, isLast, blockTypePicture, length)
	w.Uint32(pic.Type)
	w.Uint32(uint32(len(pic.MIMEType)))
	w.String(pic.MIMEType)
	w.Uint32(uint32(len(pic.Description)))
	w.String(pic.Description)
	w.Uint32(pic.Width)
	w.Uint32(pic.Height)
	w.Uint32(pic.Depth)
	w.Uint32(pic.NumColors)
	w.Bytes(pic.Data)
}

// writePadding serializes a PADDING block of the given body size.
func writePadding(w *binio.Writer, isLast bool, length uint32) {
	writeBlockHeader(w, isLast, blockTypePadding, length)
	w.Zero(int(length))
}
