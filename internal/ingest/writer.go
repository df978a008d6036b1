package ingest

import "github.com/deploymenttheory/go-uicc/internal/types"

// cursor is a bounds-checked write position into a fixed-capacity buffer.
// Unlike a growable buffer, it never reallocates mid-parse: when it runs
// out of room it reports types.ErrBufferTooShort and the caller (buildTree)
// retries the whole tree with a larger buffer, per spec §4.6's
// grow-and-retry policy.
type cursor struct {
	buf []byte
	pos uint32
}

// reserve advances the cursor by n bytes and returns the offset the
// caller may now write into, or ErrBufferTooShort if the buffer lacks
// room.
func (c *cursor) reserve(n uint32) (uint32, error) {
	if uint64(c.pos)+uint64(n) > uint64(len(c.buf)) {
		return 0, types.ErrBufferTooShort
	}
	start := c.pos
	c.pos += n
	return start, nil
}
