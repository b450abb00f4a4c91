// Package flactest synthesizes small, structurally valid FLAC
// containers for tests: real metadata blocks and frames with correct
// header and frame checksums, but meaningless payload bytes. Nothing in
// it decodes audio.
package flactest

import (
	"encoding/binary"
	"fmt"
)

// Stream describes the synthetic stream being built.
type Stream struct {
	SampleRate    uint32
	Channels      uint8
	BitsPerSample uint8
	TotalSamples  uint64
	MinBlockSize  uint16
	MaxBlockSize  uint16
}

// Track is one cue point of the synthetic disc.
type Track struct {
	Number      int
	StartSample uint64
}

// Disc assembles a complete FLAC file: stream marker, STREAMINFO,
// VORBIS_COMMENT (vendor "flactest" plus the given KEY=value comments),
// CUESHEET for the given tracks with a lead-out at TotalSamples, and
// fixed-blocking-strategy frames of blockSize samples each (the final
// frame holds the remainder). Returns the file bytes and the byte
// offset of the first frame.
func Disc(stream Stream, blockSize uint32, tracks []Track, comments []string) ([]byte, int64) {
	var out []byte
	out = append(out, "fLaC"...)
	out = append(out, BlockHeader(false, 0, 34)...)
	out = append(out, StreamInfoBody(stream)...)

	comment := VorbisCommentBody("flactest", comments)
	out = append(out, BlockHeader(false, 4, uint32(len(comment)))...)
	out = append(out, comment...)

	cue := CueSheetBody(tracks, stream.TotalSamples)
	out = append(out, BlockHeader(true, 5, uint32(len(cue)))...)
	out = append(out, cue...)

	audioStart := int64(len(out))
	out = append(out, Frames(stream, blockSize)...)
	return out, audioStart
}

// BlockHeader builds a 4-byte metadata block header.
func BlockHeader(isLast bool, blockType uint8, length uint32) []byte {
	b := blockType
	if isLast {
		b |= 0x80
	}
	return []byte{b, byte(length >> 16), byte(length >> 8), byte(length)}
}

// StreamInfoBody builds a 34-byte STREAMINFO block body. Frame size
// bounds are left zero (unknown) and the MD5 is zeroed.
func StreamInfoBody(s Stream) []byte {
	body := make([]byte, 34)
	binary.BigEndian.PutUint16(body[0:2], s.MinBlockSize)
	binary.BigEndian.PutUint16(body[2:4], s.MaxBlockSize)
	packed := uint64(s.SampleRate)<<44 |
		uint64(s.Channels-1)<<41 |
		uint64(s.BitsPerSample-1)<<36 |
		s.TotalSamples&0xFFFFFFFFF
	binary.BigEndian.PutUint64(body[10:18], packed)
	return body
}

// VorbisCommentBody builds a VORBIS_COMMENT block body from KEY=value
// strings.
func VorbisCommentBody(vendor string, comments []string) []byte {
	var out []byte
	out = binary.LittleEndian.AppendUint32(out, uint32(len(vendor)))
	out = append(out, vendor...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(comments)))
	for _, c := range comments {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(c)))
		out = append(out, c...)
	}
	return out
}

// CueSheetBody builds a CUESHEET block body for the given audio tracks
// plus a lead-out at leadOut samples. Each track gets a single index
// point 1 at offset 0.
func CueSheetBody(tracks []Track, leadOut uint64) []byte {
	var out []byte
	out = append(out, make([]byte, 128)...) // media catalog number
	out = binary.BigEndian.AppendUint64(out, 88200)
	out = append(out, 0x80)                 // CD flag
	out = append(out, make([]byte, 258)...) // reserved
	out = append(out, byte(len(tracks)+1))
	for _, t := range tracks {
		out = appendCueTrack(out, t.StartSample, byte(t.Number), 1)
	}
	out = appendCueTrack(out, leadOut, 170, 0)
	return out
}

func appendCueTrack(out []byte, start uint64, number byte, indexCount byte) []byte {
	out = binary.BigEndian.AppendUint64(out, start)
	out = append(out, number)
	out = append(out, make([]byte, 12)...) // ISRC
	out = append(out, 0)                   // audio, no pre-emphasis
	out = append(out, make([]byte, 13)...) // reserved
	out = append(out, indexCount)
	for i := byte(0); i < indexCount; i++ {
		out = binary.BigEndian.AppendUint64(out, 0)
		out = append(out, i+1)
		out = append(out, 0, 0, 0)
	}
	return out
}

// Frames builds a fixed-blocking-strategy frame sequence covering
// stream.TotalSamples: full frames of blockSize samples, then one final
// frame holding the remainder. Payload bytes are a deterministic
// pattern that cannot alias a frame sync. Every frame carries a valid
// header CRC-8 and trailing CRC-16.
func Frames(stream Stream, blockSize uint32) []byte {
	var out []byte
	remaining := stream.TotalSamples
	for number := uint64(0); remaining > 0; number++ {
		size := blockSize
		if uint64(size) > remaining {
			size = uint32(remaining)
		}
		out = append(out, Frame(stream, number, size, false)...)
		remaining -= uint64(size)
	}
	return out
}

// Frame builds one complete frame: header (with CRC-8), a small payload
// whose length scales with the block size, and the trailing CRC-16. For
// the fixed blocking strategy codedNumber is the frame number, for the
// variable strategy the frame's first sample number.
func Frame(stream Stream, codedNumber uint64, blockSize uint32, variable bool) []byte {
	header := FrameHeader(stream, codedNumber, blockSize, variable)
	frame := append([]byte{}, header...)

	payloadLen := 16 + int(blockSize/64)
	for i := 0; i < payloadLen; i++ {
		frame = append(frame, byte(i%0x7F))
	}

	crc := crc16(frame)
	return append(frame, byte(crc>>8), byte(crc))
}

// FrameHeader builds a valid frame header, including its CRC-8.
func FrameHeader(stream Stream, codedNumber uint64, blockSize uint32, variable bool) []byte {
	b1 := byte(0xF8)
	if variable {
		b1 |= 0x01
	}
	bsCode, bsExtra := blockSizeCode(blockSize)
	header := []byte{
		0xFF, b1,
		bsCode<<4 | sampleRateCode(stream.SampleRate),
		(stream.Channels-1)<<4 | sampleSizeCode(stream.BitsPerSample)<<1,
	}
	header = append(header, codedNumber64(codedNumber)...)
	header = append(header, bsExtra...)
	return append(header, crc8(header))
}

func blockSizeCode(blockSize uint32) (byte, []byte) {
	switch blockSize {
	case 192:
		return 0x01, nil
	case 576, 1152, 2304, 4608:
		code := byte(0x02)
		for v := uint32(576); v != blockSize; v <<= 1 {
			code++
		}
		return code, nil
	case 256, 512, 1024, 2048, 4096, 8192, 16384, 32768:
		code := byte(0x08)
		for v := uint32(256); v != blockSize; v <<= 1 {
			code++
		}
		return code, nil
	}
	if blockSize <= 256 {
		return 0x06, []byte{byte(blockSize - 1)}
	}
	return 0x07, []byte{byte((blockSize - 1) >> 8), byte(blockSize - 1)}
}

func sampleRateCode(rate uint32) byte {
	rates := []uint32{0, 88200, 176400, 192000, 8000, 16000, 22050, 24000, 32000, 44100, 48000, 96000}
	for code, r := range rates {
		if r == rate {
			return byte(code)
		}
	}
	return 0 // defer to STREAMINFO
}

func sampleSizeCode(bits uint8) byte {
	switch bits {
	case 8:
		return 0x01
	case 12:
		return 0x02
	case 16:
		return 0x04
	case 20:
		return 0x05
	case 24:
		return 0x06
	case 32:
		return 0x07
	default:
		return 0x00 // defer to STREAMINFO
	}
}

func codedNumber64(v uint64) []byte {
	if v < 0x80 {
		return []byte{byte(v)}
	}
	if v >= 1<<36 {
		panic(fmt.Sprintf("coded number %d exceeds 36 bits", v))
	}
	var length int
	switch {
	case v < 1<<11:
		length = 2
	case v < 1<<16:
		length = 3
	case v < 1<<21:
		length = 4
	case v < 1<<26:
		length = 5
	case v < 1<<31:
		length = 6
	default:
		length = 7
	}
	out := make([]byte, length)
	for i := length - 1; i > 0; i-- {
		out[i] = 0x80 | byte(v&0x3F)
		v >>= 6
	}
	out[0] = byte(0xFF)<<(8-length) | byte(v)
	return out
}

func crc8(data []byte) byte {
	var crc uint8
	for _, b := range data {
		crc ^= b
		for bit := 0; bit < 8; bit++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x07
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x8005
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
