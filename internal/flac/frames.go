package flac

import (
	"bytes"
	"fmt"
	"io"

	"github.com/simonhull/tracksplit/internal/types"
)

// A frame header is at most 16 bytes: sync+flags (4), coded frame or
// sample number (up to 7), optional block size (up to 2), optional
// sample rate (up to 2), CRC-8 (1).
const maxFrameHeaderLen = 16

const scanChunkSize = 256 * 1024

// frameHeader is the parsed, validated fixed portion of one frame.
type frameHeader struct {
	codedNumber uint64 // sample number (variable strategy) or frame number (fixed)
	blockSize   uint32 // samples in this frame
	headerLen   int
	variable    bool
}

// region provides bounds-checked access to the compressed bitstream
// area of the source, addressed relative to the first frame byte.
type region struct {
	src  io.ReaderAt
	base int64
	size int64
	path string
}

// readAt fills b at a region-relative offset. Returns the number of
// bytes read, clipped at the region end.
func (rg *region) readAt(b []byte, off int64) (int, error) {
	if off >= rg.size {
		return 0, io.EOF
	}
	if off+int64(len(b)) > rg.size {
		b = b[:rg.size-off]
	}
	n, err := rg.src.ReadAt(b, rg.base+off)
	if err != nil && err != io.EOF {
		return n, err
	}
	if n < len(b) {
		return n, fmt.Errorf("%s: short read of frame region at offset %d", rg.path, off)
	}
	return n, nil
}

// nextSyncCandidate returns the smallest region offset >= from holding a
// frame sync pattern (0b11111111_111110 plus a zero reserved bit), or
// ok=false when none remains before the region end.
func (rg *region) nextSyncCandidate(from int64) (int64, bool, error) {
	buf := make([]byte, scanChunkSize+1)
	for chunkStart := from; chunkStart < rg.size; {
		n, err := rg.readAt(buf, chunkStart)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, false, err
		}
		chunk := buf[:n]
		for i := 0; ; {
			rel := bytes.IndexByte(chunk[i:], 0xFF)
			if rel < 0 {
				break
			}
			i += rel
			if i+1 >= len(chunk) {
				break
			}
			if chunk[i+1]&0xFC == 0xF8 {
				return chunkStart + int64(i), true, nil
			}
			i++
		}
		// Overlap by one byte so a sync pair straddling the chunk
		// boundary is still seen.
		chunkStart += int64(n) - 1
		if int64(n) <= 1 {
			break
		}
	}
	return 0, false, nil
}

// crc16Range computes the FLAC CRC-16 over the region bytes [from, to).
func (rg *region) crc16Range(from, to int64) (uint16, error) {
	var crc crc16
	buf := make([]byte, scanChunkSize)
	for off := from; off < to; {
		chunk := buf
		if remaining := to - off; remaining < int64(len(chunk)) {
			chunk = chunk[:remaining]
		}
		if _, err := rg.readAt(chunk, off); err != nil {
			return 0, err
		}
		crc.update(chunk)
		off += int64(len(chunk))
	}
	return crc.sum(), nil
}

// parseFrameHeader parses and validates a frame header from b, which
// holds the (possibly clipped) bytes at the candidate offset. Fields
// that restate STREAMINFO values must agree with stream; the header
// CRC-8 must match. Any violation returns an error: the candidate is
// not a frame boundary.
func parseFrameHeader(b []byte, stream types.StreamDescription) (frameHeader, error) {
	var h frameHeader
	if len(b) < 6 {
		return h, fmt.Errorf("too short for a frame header")
	}
	if b[0] != 0xFF || b[1]&0xFC != 0xF8 {
		return h, fmt.Errorf("no sync pattern")
	}
	h.variable = b[1]&0x01 == 1

	bsBits := b[2] >> 4
	srBits := b[2] & 0x0F
	if bsBits == 0 {
		return h, fmt.Errorf("reserved block size code")
	}
	if srBits == 0x0F {
		return h, fmt.Errorf("invalid sample rate code")
	}

	chanBits := b[3] >> 4
	sizeBits := b[3] >> 1 & 0x07
	if b[3]&0x01 != 0 {
		return h, fmt.Errorf("reserved header bit set")
	}
	if chanBits > 0x0A {
		return h, fmt.Errorf("reserved channel assignment")
	}
	channels := uint8(chanBits + 1)
	if chanBits >= 0x08 {
		channels = 2 // left/side, right/side, mid/side
	}
	if channels != stream.Channels {
		return h, fmt.Errorf("channel count %d disagrees with STREAMINFO %d", channels, stream.Channels)
	}
	if bits, ok := decodeSampleSize(sizeBits); !ok {
		return h, fmt.Errorf("reserved sample size code")
	} else if bits != 0 && bits != stream.BitsPerSample {
		return h, fmt.Errorf("sample size %d disagrees with STREAMINFO %d", bits, stream.BitsPerSample)
	}

	coded, codedLen, err := decodeCodedNumber(b[4:])
	if err != nil {
		return h, err
	}
	h.codedNumber = coded
	pos := 4 + codedLen

	switch bsBits {
	case 0x01:
		h.blockSize = 192
	case 0x06:
		if len(b) < pos+1 {
			return h, fmt.Errorf("truncated 8-bit block size")
		}
		h.blockSize = uint32(b[pos]) + 1
		pos++
	case 0x07:
		if len(b) < pos+2 {
			return h, fmt.Errorf("truncated 16-bit block size")
		}
		h.blockSize = (uint32(b[pos])<<8 | uint32(b[pos+1])) + 1
		pos += 2
	default:
		if bsBits&0x08 != 0 {
			h.blockSize = 256 << (bsBits & 0x07)
		} else {
			h.blockSize = 576 << (bsBits - 2)
		}
	}

	rate, extra, ok := decodeSampleRate(srBits, b, pos)
	if !ok {
		return h, fmt.Errorf("truncated sample rate field")
	}
	pos += extra
	if rate != 0 && rate != stream.SampleRate {
		return h, fmt.Errorf("sample rate %d disagrees with STREAMINFO %d", rate, stream.SampleRate)
	}

	if len(b) < pos+1 {
		return h, fmt.Errorf("truncated header CRC")
	}
	if got, want := crc8(b[:pos]), b[pos]; got != want {
		return h, fmt.Errorf("header CRC mismatch: computed %#02x, stored %#02x", got, want)
	}
	h.headerLen = pos + 1
	return h, nil
}

// decodeSampleSize maps the 3-bit sample size code to bits per sample.
// 0 means "get from STREAMINFO".
func decodeSampleSize(code uint8) (uint8, bool) {
	switch code {
	case 0x00:
		return 0, true
	case 0x01:
		return 8, true
	case 0x02:
		return 12, true
	case 0x04:
		return 16, true
	case 0x05:
		return 20, true
	case 0x06:
		return 24, true
	case 0x07:
		return 32, true
	default:
		return 0, false
	}
}

// decodeSampleRate maps the 4-bit sample rate code to Hz, consuming any
// trailing rate bytes at b[pos:]. 0 Hz means "get from STREAMINFO".
// Returns the rate, the number of extra bytes consumed, and whether the
// field was intact.
func decodeSampleRate(code uint8, b []byte, pos int) (uint32, int, bool) {
	fixed := [...]uint32{0, 88200, 176400, 192000, 8000, 16000, 22050, 24000, 32000, 44100, 48000, 96000}
	switch {
	case code < 0x0C:
		return fixed[code], 0, true
	case code == 0x0C:
		if len(b) < pos+1 {
			return 0, 0, false
		}
		return uint32(b[pos]) * 1000, 1, true
	case code == 0x0D:
		if len(b) < pos+2 {
			return 0, 0, false
		}
		return uint32(b[pos])<<8 | uint32(b[pos+1]), 2, true
	default: // 0x0E
		if len(b) < pos+2 {
			return 0, 0, false
		}
		return (uint32(b[pos])<<8 | uint32(b[pos+1])) * 10, 2, true
	}
}

// IndexFrames scans the compressed bitstream region and returns an
// ordered index entry for every frame, without decoding any audio. The
// first frame must begin exactly at meta.AudioStart; thereafter each
// frame's length is inferred from the next validated sync position,
// gated on header CRC, sample continuity, and the whole-frame CRC-16.
// Entry offsets are relative to the start of the region.
//
// Returns FrameSyncLostError when the region cannot be covered
// contiguously; arbitrary resynchronization would risk silently
// dropping audio, so this is fatal for the whole file.
func IndexFrames(src io.ReaderAt, size int64, path string, meta *Metadata) ([]types.FrameIndexEntry, error) {
	rg := &region{src: src, base: meta.AudioStart, size: size - meta.AudioStart, path: path}
	stream := meta.Stream

	syncLost := func(off int64, format string, args ...any) error {
		return &types.FrameSyncLostError{Path: path, Offset: off, Reason: fmt.Sprintf(format, args...)}
	}

	headerBuf := make([]byte, maxFrameHeaderLen)
	readHeader := func(off int64) (frameHeader, error) {
		n, err := rg.readAt(headerBuf, off)
		if err != nil && err != io.EOF {
			return frameHeader{}, err
		}
		return parseFrameHeader(headerBuf[:n], stream)
	}

	first, err := readHeader(0)
	if err != nil {
		return nil, syncLost(0, "no valid frame at start of bitstream: %v", err)
	}

	// With the fixed blocking strategy the coded number counts frames,
	// and every frame but the last spans the stream's regular block
	// size. The first frame defines that regular size.
	fixedSize := uint64(first.blockSize)
	startSampleOf := func(h frameHeader) uint64 {
		if h.variable {
			return h.codedNumber
		}
		return h.codedNumber * fixedSize
	}

	var entries []types.FrameIndexEntry
	pos := int64(0)
	header := first
	for {
		start := startSampleOf(header)
		if len(entries) > 0 {
			if prev := entries[len(entries)-1]; start != prev.End() {
				return nil, syncLost(pos, "frame starts at sample %d, expected %d", start, prev.End())
			}
		}
		expectedNext := start + uint64(header.blockSize)

		// Locate the end of this frame: the next sync candidate that
		// parses, continues the sample sequence, and is preceded by a
		// matching frame CRC-16. Candidates failing any gate are false
		// syncs inside the entropy-coded payload.
		frameEnd := rg.size
		var nextHeader frameHeader
		haveNext := false
		for from := pos + int64(header.headerLen) + 2; ; {
			candidate, ok, err := rg.nextSyncCandidate(from)
			if err != nil {
				return nil, &types.IoFailureError{Path: path, Op: "read", Err: err}
			}
			if !ok {
				break
			}
			h, err := readHeader(candidate)
			if err != nil {
				from = candidate + 1
				continue
			}
			if h.variable != header.variable || startSampleOf(h) != expectedNext {
				from = candidate + 1
				continue
			}
			stored := make([]byte, 2)
			if _, err := rg.readAt(stored, candidate-2); err != nil {
				return nil, &types.IoFailureError{Path: path, Op: "read", Err: err}
			}
			computed, err := rg.crc16Range(pos, candidate-2)
			if err != nil {
				return nil, &types.IoFailureError{Path: path, Op: "read", Err: err}
			}
			if computed != uint16(stored[0])<<8|uint16(stored[1]) {
				from = candidate + 1
				continue
			}
			frameEnd, nextHeader, haveNext = candidate, h, true
			break
		}

		if !haveNext {
			// Last frame: it must account for the remainder of the
			// region and carry a valid trailing CRC-16.
			stored := make([]byte, 2)
			if _, err := rg.readAt(stored, rg.size-2); err != nil {
				return nil, &types.IoFailureError{Path: path, Op: "read", Err: err}
			}
			computed, err := rg.crc16Range(pos, rg.size-2)
			if err != nil {
				return nil, &types.IoFailureError{Path: path, Op: "read", Err: err}
			}
			if computed != uint16(stored[0])<<8|uint16(stored[1]) {
				return nil, syncLost(pos, "final frame CRC-16 mismatch")
			}
		}

		entries = append(entries, types.FrameIndexEntry{
			Offset:      pos,
			StartSample: start,
			SampleCount: header.blockSize,
		})
		if !haveNext {
			break
		}
		pos, header = frameEnd, nextHeader
	}

	if total := stream.TotalSamples; total != 0 {
		if covered := entries[len(entries)-1].End(); covered != total {
			return nil, syncLost(pos, "indexed %d of %d samples; sync lost mid-stream", covered, total)
		}
	}
	return entries, nil
}
