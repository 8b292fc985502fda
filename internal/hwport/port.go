// Package hwport defines the contract the node handle uses to reach the
// physical link: a non-blocking byte reader, a byte writer, and a
// free-running millisecond clock.
package hwport

import "errors"

// ErrNoByte is returned by ReadByte when the port has nothing buffered.
// It is not an error condition for the caller; spin_once treats it as
// "stop reading this call".
var ErrNoByte = errors.New("hwport: no byte available")

// Port is a full-duplex byte pipe plus a monotonic millisecond clock.
// Implementations must never block in ReadByte; WriteByte may block
// briefly but must not yield to another client mid-frame.
type Port interface {
	// Init prepares the link for use.
	Init() error

	// ReadByte returns the next inbound byte, or ErrNoByte if none is
	// currently available. It must return immediately in either case.
	ReadByte() (byte, error)

	// WriteByte transmits one byte, in order.
	WriteByte(b byte) error

	// TimeMillis returns a free-running monotonic counter in
	// milliseconds. It wraps; callers must compare two readings with
	// unsigned subtraction, never assuming current >= reference.
	TimeMillis() uint32
}
