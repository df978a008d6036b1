package types

import "errors"

// Result errors form the single taxonomy that propagates through the
// core (disk, ingest, VA, BER-TLV, dispatcher). Handlers test against
// these with errors.Is and translate them into status words; they never
// let one reach the wire as-is.
var (
	// ErrBadParameters signals that caller-supplied parameters were
	// structurally invalid (out-of-range index, malformed AID, etc).
	ErrBadParameters = errors.New("uicc: bad parameters")

	// ErrBufferTooShort signals that a caller-supplied buffer could not
	// hold the operation's output; the operation is retryable with a
	// larger buffer.
	ErrBufferTooShort = errors.New("uicc: buffer too short")

	// ErrNotFound signals that a lookup (file, record, ADF) found
	// nothing matching the key.
	ErrNotFound = errors.New("uicc: not found")

	// ErrNotImplemented signals a deliberately unimplemented operation
	// (select-by-DF-name, select-by-path, data-object selection).
	ErrNotImplemented = errors.New("uicc: not implemented")

	// ErrFatal wraps unspecified fatal errors from load/save/ingest; the
	// caller discards any partial state on this error.
	ErrFatal = errors.New("uicc: fatal error")
)
