package bertlv

import (
	"bytes"
	"testing"
)

func TestEncodeSimpleTLV(t *testing.T) {
	got := Encode(func(e *Encoder) {
		mark := e.NstdStart()
		e.Data([]byte{0xAA, 0xBB, 0xCC})
		e.Hdr(e.NstdEnd(mark), []byte{0x80})
	})
	want := []byte{0x80, 0x03, 0xAA, 0xBB, 0xCC}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestEncodeReversesCallOrder(t *testing.T) {
	// The last Data call chronologically ends up leftmost in the output.
	got := Encode(func(e *Encoder) {
		e.Data([]byte{0x03})
		e.Data([]byte{0x02})
		e.Data([]byte{0x01})
	})
	want := []byte{0x01, 0x02, 0x03}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestEncodeNestedConstructed(t *testing.T) {
	// Outer TLV (tag 0x6F) wrapping one inner TLV (tag 0x80, 2-byte value).
	got := Encode(func(e *Encoder) {
		outerMark := e.NstdStart()

		innerMark := e.NstdStart()
		e.Data([]byte{0x11, 0x22})
		e.Hdr(e.NstdEnd(innerMark), []byte{0x80})

		e.Hdr(e.NstdEnd(outerMark), []byte{0x6F})
	})
	want := []byte{0x6F, 0x04, 0x80, 0x02, 0x11, 0x22}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestPrependLengthLongForm(t *testing.T) {
	value := bytes.Repeat([]byte{0xFF}, 200)
	got := Encode(func(e *Encoder) {
		mark := e.NstdStart()
		e.Data(value)
		e.Hdr(e.NstdEnd(mark), []byte{0x80})
	})
	if got[0] != 0x80 || got[1] != 0x81 || got[2] != 0xC8 {
		t.Errorf("expected long-form length 0x81 0xc8, got % x", got[:3])
	}
	if len(got) != 3+200 {
		t.Errorf("total length = %d, want %d", len(got), 3+200)
	}
}

func TestEncoderLen(t *testing.T) {
	e := Init(make([]byte, 10))
	e.Data([]byte{1, 2, 3})
	if got := e.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}
