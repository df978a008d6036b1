// Package bertlv implements the backward, two-pass BER-TLV encoder
// described in spec §4.4: nested TLV structures are written into a
// caller-supplied buffer from the end toward the beginning, so each
// nested structure's length can be computed by subtraction once its
// children are emitted, and a dry run (nil buffer) measures the exact
// size a real run then encodes into.
package bertlv

// Encoder holds a shared write cursor into buf, which decreases as bytes
// are prepended. A nil buf makes every Data/Hdr call a pure length
// measurement: the cursor still advances (becoming negative), but
// nothing is copied, which is exactly the "dry run" spec §4.4 asks for.
type Encoder struct {
	buf []byte
	cur int
}

// Init creates a cursor positioned at the end of buf (len(buf) for a real
// run, 0 for a dry run with buf == nil).
func Init(buf []byte) *Encoder {
	return &Encoder{buf: buf, cur: len(buf)}
}

// NstdStart opens a nested scope and returns its mark: the cursor
// position before any of the nested structure's content is written.
// Because the encoder has a single shared cursor, a "child" scope is
// simply a snapshot of that cursor — nested writes prepend into the same
// buffer as their parent, just earlier in sequence.
func (e *Encoder) NstdStart() int {
	return e.cur
}

// NstdEnd closes a nested scope. The child's written bytes are already
// part of the shared buffer immediately before the parent's own cursor
// position, so there is nothing to copy — NstdEnd exists for symmetry
// with spec §4.4's operation list and to make call sites read as
// explicitly closing what NstdStart opened.
func (e *Encoder) NstdEnd(childMark int) int {
	return childMark
}

// Data prepends raw bytes, moving the cursor backward by len(b).
func (e *Encoder) Data(b []byte) {
	n := len(b)
	if e.buf != nil {
		copy(e.buf[e.cur-n:e.cur], b)
	}
	e.cur -= n
}

// Hdr prepends a BER length field — covering everything written since
// mark — followed by tag. Called once a nested scope's value bytes have
// all been written via Data, to close it out with its tag and length.
func (e *Encoder) Hdr(mark int, tag []byte) {
	e.prependLength(mark - e.cur)
	e.Data(tag)
}

// prependLength writes length in BER short or long form immediately
// before the current cursor.
func (e *Encoder) prependLength(length int) {
	switch {
	case length <= 0x7F:
		e.Data([]byte{byte(length)})
	case length <= 0xFF:
		e.Data([]byte{0x81, byte(length)})
	case length <= 0xFFFF:
		e.Data([]byte{0x82, byte(length >> 8), byte(length)})
	default:
		e.Data([]byte{0x83, byte(length >> 16), byte(length >> 8), byte(length)})
	}
}

// Len reports the number of bytes written so far (from the end of buf
// backward to the current cursor).
func (e *Encoder) Len() int {
	return len(e.buf) - e.cur
}

// Encode runs build once as a dry pass (nil buffer) to measure the exact
// output length, then again into a freshly allocated, correctly sized
// buffer, and returns the fully encoded bytes in forward order. Handlers
// never hand-roll the two passes themselves — they call Encode once with
// a closure describing the TLV structure.
func Encode(build func(e *Encoder)) []byte {
	dry := Init(nil)
	build(dry)
	length := dry.Len()

	real := Init(make([]byte, length))
	build(real)
	return real.buf
}
