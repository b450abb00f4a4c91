package binio

import (
	"encoding/binary"
	"io"
)

// Writer wraps an io.Writer with position tracking and sticky error
// handling: after the first failure every call is a no-op and Err
// returns the failure. Callers can chain writes and check once.
type Writer struct {
	w      io.Writer
	offset int64
	err    error
}

// NewWriter creates a Writer positioned at offset 0.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 {
	return w.offset
}

// Err returns the first write error encountered, if any.
func (w *Writer) Err() error {
	return w.err
}

// Bytes writes raw bytes.
func (w *Writer) Bytes(b []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(b)
	w.offset += int64(n)
	w.err = err
}

// String writes a string as raw bytes.
func (w *Writer) String(s string) {
	w.Bytes([]byte(s))
}

// Uint8 writes one byte.
func (w *Writer) Uint8(v uint8) {
	w.Bytes([]byte{v})
}

// Uint16 writes a big-endian 16-bit value.
func (w *Writer) Uint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.Bytes(b[:])
}

// Uint24 writes a big-endian 24-bit value. The top byte of v must be 0.
func (w *Writer) Uint24(v uint32) {
	w.Bytes([]byte{byte(v >> 16), byte(v >> 8), byte(v)})
}

// Uint32 writes a big-endian 32-bit value.
func (w *Writer) Uint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.Bytes(b[:])
}

// Uint64 writes a big-endian 64-bit value.
func (w *Writer) Uint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.Bytes(b[:])
}

// Uint32LE writes a little-endian 32-bit value.
func (w *Writer) Uint32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Bytes(b[:])
}

// Zero writes n zero bytes.
func (w *Writer) Zero(n int) {
	if w.err != nil || n <= 0 {
		return
	}
	buf := make([]byte, min(n, 4096))
	for n > 0 {
		chunk := min(n, len(buf))
		w.Bytes(buf[:chunk])
		if w.err != nil {
			return
		}
		n -= chunk
	}
}
