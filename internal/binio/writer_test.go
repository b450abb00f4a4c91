package binio

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriterEncodings(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)

	w.String("fLaC")
	w.Uint8(0x80)
	w.Uint24(0x000022)
	w.Uint16(0x1000)
	w.Uint32LE(9)
	w.Uint64(0x0102030405060708)

	if err := w.Err(); err != nil {
		t.Fatalf("Err = %v", err)
	}

	want := []byte{
		'f', 'L', 'a', 'C',
		0x80,
		0x00, 0x00, 0x22,
		0x10, 0x00,
		0x09, 0x00, 0x00, 0x00,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("wrote % x, want % x", buf.Bytes(), want)
	}
	if w.Offset() != int64(len(want)) {
		t.Errorf("Offset = %d, want %d", w.Offset(), len(want))
	}
}

func TestWriterZeroPadding(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)

	w.Zero(10000)
	if err := w.Err(); err != nil {
		t.Fatalf("Err = %v", err)
	}
	if buf.Len() != 10000 {
		t.Fatalf("wrote %d bytes, want 10000", buf.Len())
	}
	for i, b := range buf.Bytes() {
		if b != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, b)
		}
	}
}

type failWriter struct{ err error }

func (f *failWriter) Write(p []byte) (int, error) {
	return 0, f.err
}

func TestWriterStickyError(t *testing.T) {
	wantErr := errors.New("disk full")
	w := NewWriter(&failWriter{err: wantErr})

	w.Uint32(1)
	w.Uint32(2)
	w.Uint32(3)

	if !errors.Is(w.Err(), wantErr) {
		t.Fatalf("Err = %v, want %v", w.Err(), wantErr)
	}
	if w.Offset() != 0 {
		t.Errorf("Offset = %d after failed writes, want 0", w.Offset())
	}
}
