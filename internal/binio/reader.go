// Package binio provides bounds-checked binary reading and
// offset-tracking writing for FLAC container structures.
package binio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Reader reads sequentially from an io.ReaderAt with bounds checking
// and contextual error messages. The zero offset is the reader's own
// origin, not necessarily the start of the underlying file.
type Reader struct {
	r      io.ReaderAt
	path   string
	size   int64
	offset int64
}

// NewReader creates a Reader over r covering [0, size), starting at
// offset. path is used in error messages only.
func NewReader(r io.ReaderAt, size int64, path string, offset int64) *Reader {
	return &Reader{r: r, path: path, size: size, offset: offset}
}

// Path returns the file path associated with this reader.
func (r *Reader) Path() string {
	return r.path
}

// Size returns the total readable size.
func (r *Reader) Size() int64 {
	return r.size
}

// Offset returns the current read position.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Seek repositions the reader at an absolute offset.
func (r *Reader) Seek(offset int64) {
	r.offset = offset
}

// Skip advances the read position by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// Remaining returns the number of bytes left before the end.
func (r *Reader) Remaining() int64 {
	return r.size - r.offset
}

// ReadAt fills b from an absolute offset without moving the read
// position. what names the field being read, for error messages.
func (r *Reader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= r.size {
		return fmt.Errorf("%s: offset %d out of bounds (size %d) while reading %s",
			r.path, off, r.size, what)
	}
	if off+int64(len(b)) > r.size {
		return fmt.Errorf("%s: read of %d bytes at offset %d exceeds size %d while reading %s",
			r.path, len(b), off, r.size, what)
	}
	n, err := r.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: read %s at offset %d: %w", r.path, what, off, err)
	}
	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d of %d bytes",
			r.path, what, off, n, len(b))
	}
	return nil
}

// Bytes reads length bytes at the current position and advances.
func (r *Reader) Bytes(length int, what string) ([]byte, error) {
	b := make([]byte, length)
	if err := r.ReadAt(b, r.offset, what); err != nil {
		return nil, err
	}
	r.offset += int64(length)
	return b, nil
}

// String reads a length-byte string at the current position and advances.
func (r *Reader) String(length int, what string) (string, error) {
	b, err := r.Bytes(length, what)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Uint8 reads one byte and advances.
func (r *Reader) Uint8(what string) (uint8, error) {
	b, err := r.Bytes(1, what)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a big-endian 16-bit value and advances.
func (r *Reader) Uint16(what string) (uint16, error) {
	b, err := r.Bytes(2, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Uint24 reads a big-endian 24-bit value and advances.
func (r *Reader) Uint24(what string) (uint32, error) {
	b, err := r.Bytes(3, what)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// Uint32 reads a big-endian 32-bit value and advances.
func (r *Reader) Uint32(what string) (uint32, error) {
	b, err := r.Bytes(4, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Uint64 reads a big-endian 64-bit value and advances.
func (r *Reader) Uint64(what string) (uint64, error) {
	b, err := r.Bytes(8, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// Uint32LE reads a little-endian 32-bit value and advances. Vorbis
// comment lengths are the only little-endian fields in a FLAC stream.
func (r *Reader) Uint32LE(what string) (uint32, error) {
	b, err := r.Bytes(4, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}
