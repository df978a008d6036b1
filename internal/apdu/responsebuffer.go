package apdu

import "github.com/deploymenttheory/go-uicc/internal/types"

// ResponseBuffer holds overflow response bytes between the command that
// produced them (typically SELECT) and subsequent GET RESPONSE retrievals,
// per spec §4.5's {len, offset} cursor over a fixed UICC_DATA_MAX_SHRT
// capacity. It is owned exclusively by the session that embeds it; nothing
// outside the dispatcher ever sees its backing array directly.
type ResponseBuffer struct {
	buf    [types.UICCDataMaxShrt]byte
	length int
	offset int
}

// Stash resets the cursor to the start of data and copies data in. data
// must fit within UICCDataMaxShrt; callers only ever stash BER-TLV
// encodings already bounded by short-APDU Ne, so this never overflows in
// practice, but Stash still reports the violation rather than silently
// truncating.
func (b *ResponseBuffer) Stash(data []byte) error {
	if len(data) > len(b.buf) {
		return types.ErrBufferTooShort
	}
	copy(b.buf[:], data)
	b.length = len(data)
	b.offset = 0
	return nil
}

// Available reports how many bytes remain to be retrieved via GET
// RESPONSE.
func (b *ResponseBuffer) Available() int {
	return b.length - b.offset
}

// Take copies up to n bytes starting at the current offset, advances the
// offset by the number of bytes actually copied, and returns them.
func (b *ResponseBuffer) Take(n int) []byte {
	avail := b.Available()
	if n > avail {
		n = avail
	}
	out := make([]byte, n)
	copy(out, b.buf[b.offset:b.offset+n])
	b.offset += n
	return out
}

// Reset clears the buffer, discarding any unretrieved bytes.
func (b *ResponseBuffer) Reset() {
	b.length = 0
	b.offset = 0
}
