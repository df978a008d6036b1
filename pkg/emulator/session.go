// Package emulator is the emulator's public API: a Session owns a disk
// image, the virtual-application selection state, the response buffer,
// and the command dispatcher, and serialises access to them behind a
// mutex so a single process can safely expose Transmit to one external
// caller at a time (spec §5's scheduling model).
package emulator

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-uicc/internal/apdu"
	"github.com/deploymenttheory/go-uicc/internal/disk"
	"github.com/deploymenttheory/go-uicc/internal/va"
)

// Session is the emulator's public handle: one disk image, one VA, one
// response buffer, one dispatcher. The core itself assumes exclusive use
// (spec §5); Session's mutex is the serialising wrapper the spec
// describes as optional but expected of an implementation.
type Session struct {
	mu sync.Mutex

	Disk       *disk.Disk
	VA         *va.State
	Dispatcher *apdu.Dispatcher
	RBuf       *apdu.ResponseBuffer

	// ID is a fresh correlation identifier minted on New and on every
	// Reset, for an external caller (logging, a host harness) to tie a
	// run of APDUs to a particular card session.
	ID uuid.UUID
}

// New creates a Session over an already-loaded disk, with the VA reset to
// the MF.
func New(d *disk.Disk) (*Session, error) {
	v, err := va.New(d)
	if err != nil {
		return nil, fmt.Errorf("init virtual application: %w", err)
	}
	rbuf := &apdu.ResponseBuffer{}
	s := &Session{
		Disk:       d,
		VA:         v,
		RBuf:       rbuf,
		Dispatcher: apdu.New(v, rbuf),
		ID:         uuid.New(),
	}
	return s, nil
}

// Open loads a binary disk image from path and wraps it in a Session.
func Open(path string) (*Session, error) {
	d, err := disk.Load(path)
	if err != nil {
		return nil, err
	}
	return New(d)
}

// Transmit routes one command APDU through the dispatcher. It holds the
// session mutex for the call's duration, which is the entire cost of
// "serialising external access" spec §5 asks for: the dispatcher itself
// has no concurrency control, and callers that genuinely need the
// two-phase procedure-byte protocol drive it explicitly by submitting
// ProcedureCount 0 then 1 across two calls, exactly as a real host driver
// would across two transport-layer exchanges.
func (s *Session) Transmit(cmd apdu.Command) (apdu.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Dispatcher.Handle(cmd)
}

// Reset selects the MF and mints a fresh session ID, discarding any
// response buffer contents.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.VA.Reset(); err != nil {
		return err
	}
	s.RBuf.Reset()
	s.ID = uuid.New()
	return nil
}

// Dump writes a human-readable tree of every file in every tree of the
// disk to w, in walk order.
func (s *Session) Dump(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dumpDisk(w, s.Disk)
}
