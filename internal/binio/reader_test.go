package binio

import (
	"bytes"
	"strings"
	"testing"
)

func TestReaderSequential(t *testing.T) {
	data := []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06,
		0x07, 0x08, 0x09, 0x0A,
		'f', 'L', 'a', 'C',
	}
	r := NewReader(bytes.NewReader(data), int64(len(data)), "test.flac", 0)

	v8, err := r.Uint8("one byte")
	if err != nil {
		t.Fatalf("Uint8: %v", err)
	}
	if v8 != 0x01 {
		t.Errorf("Uint8 = %#x, want 0x01", v8)
	}

	v16, err := r.Uint16("two bytes")
	if err != nil {
		t.Fatalf("Uint16: %v", err)
	}
	if v16 != 0x0203 {
		t.Errorf("Uint16 = %#x, want 0x0203", v16)
	}

	v24, err := r.Uint24("three bytes")
	if err != nil {
		t.Fatalf("Uint24: %v", err)
	}
	if v24 != 0x040506 {
		t.Errorf("Uint24 = %#x, want 0x040506", v24)
	}

	v32, err := r.Uint32("four bytes")
	if err != nil {
		t.Fatalf("Uint32: %v", err)
	}
	if v32 != 0x0708090A {
		t.Errorf("Uint32 = %#x, want 0x0708090A", v32)
	}

	s, err := r.String(4, "magic")
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if s != "fLaC" {
		t.Errorf("String = %q, want %q", s, "fLaC")
	}

	if r.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", r.Remaining())
	}
}

func TestReaderLittleEndian(t *testing.T) {
	data := []byte{0x44, 0x33, 0x22, 0x11}
	r := NewReader(bytes.NewReader(data), int64(len(data)), "test.flac", 0)

	v, err := r.Uint32LE("comment length")
	if err != nil {
		t.Fatalf("Uint32LE: %v", err)
	}
	if v != 0x11223344 {
		t.Errorf("Uint32LE = %#x, want 0x11223344", v)
	}
}

func TestReaderOutOfBounds(t *testing.T) {
	data := []byte{0x01, 0x02}
	r := NewReader(bytes.NewReader(data), int64(len(data)), "test.flac", 0)

	if _, err := r.Uint32("too much"); err == nil {
		t.Fatal("expected out-of-bounds error, got nil")
	} else if !strings.Contains(err.Error(), "too much") {
		t.Errorf("error %q does not name the field being read", err)
	}

	r.Seek(100)
	if _, err := r.Uint8("past end"); err == nil {
		t.Fatal("expected out-of-bounds error for offset past end, got nil")
	}
}

func TestReaderSeekAndSkip(t *testing.T) {
	data := []byte{0x00, 0x11, 0x22, 0x33}
	r := NewReader(bytes.NewReader(data), int64(len(data)), "test.flac", 1)

	if r.Offset() != 1 {
		t.Fatalf("initial offset = %d, want 1", r.Offset())
	}
	r.Skip(2)
	v, err := r.Uint8("last byte")
	if err != nil {
		t.Fatalf("Uint8: %v", err)
	}
	if v != 0x33 {
		t.Errorf("Uint8 after skip = %#x, want 0x33", v)
	}
}
