package flac

import "fmt"

// FLAC frame headers carry the frame or sample number as an extended
// UTF-8 coded value: the standard UTF-8 prefix scheme stretched to seven
// bytes so it can hold up to 36 bits.

const maxCodedNumberLen = 7

// decodeCodedNumber decodes an extended-UTF-8 coded number from the
// start of b, returning the value and the number of bytes it occupied.
func decodeCodedNumber(b []byte) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("empty coded number")
	}
	first := b[0]

	var mask uint8
	switch {
	case first <= 0x7F:
		return uint64(first), 1, nil
	case first >= 0xC0 && first <= 0xDF:
		mask = 0x1F
	case first >= 0xE0 && first <= 0xEF:
		mask = 0x0F
	case first >= 0xF0 && first <= 0xF7:
		mask = 0x07
	case first >= 0xF8 && first <= 0xFB:
		mask = 0x03
	case first >= 0xFC && first <= 0xFD:
		mask = 0x01
	case first == 0xFE:
		mask = 0x00
	default:
		return 0, 0, fmt.Errorf("invalid coded number lead byte %#02x", first)
	}

	// The count of leading 1s in the prefix is the total byte length.
	length := 0
	for probe := first; probe&0x80 != 0; probe <<= 1 {
		length++
	}
	if length > len(b) {
		return 0, 0, fmt.Errorf("coded number truncated: need %d bytes, have %d", length, len(b))
	}

	value := uint64(first & mask)
	for i := 1; i < length; i++ {
		if b[i]&0xC0 != 0x80 {
			return 0, 0, fmt.Errorf("invalid coded number continuation byte %#02x", b[i])
		}
		value = value<<6 | uint64(b[i]&0x3F)
	}
	return value, length, nil
}

// encodeCodedNumber encodes v as an extended-UTF-8 coded number.
// v must fit in 36 bits.
func encodeCodedNumber(v uint64) ([]byte, error) {
	if v < 0x80 {
		return []byte{byte(v)}, nil
	}
	if v >= 1<<36 {
		return nil, fmt.Errorf("coded number %d exceeds 36 bits", v)
	}

	// Payload bits per total length: n-byte sequences carry
	// (7-n) + 6*(n-1) bits.
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
	// Lead byte: length 1-bits, a 0 bit, then the remaining value bits.
	prefix := byte(0xFF) << (8 - length)
	out[0] = prefix | byte(v)
	return out, nil
}
