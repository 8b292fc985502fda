// Package paramstore drives the parameter-fetch protocol: publish a
// request, busy-spin the node handle until a response lands or a
// timeout elapses, then copy typed values out only on an exact length
// match.
//
// Fetcher is deliberately decoupled from node.Handle by a small set of
// callbacks rather than an interface on Handle itself, so paramstore
// has no import-time dependency on node and node can own the
// convenience wrappers (RequestParam, GetParamInts, ...) that build a
// Fetcher from its own state.
package paramstore

import "time"

// Response mirrors the three independently-lengthed arrays a
// parameter response can carry. Exactly one is populated for any real
// parameter, but all three are always present on the wire.
type Response struct {
	Ints    []int32
	Floats  []float32
	Strings []string
}

// Fetcher holds everything a parameter fetch needs from its owning
// node handle.
type Fetcher struct {
	// Publish sends a RequestParam message for name.
	Publish func(name string) error
	// SpinOnce pumps the node handle once.
	SpinOnce func() int
	// Received reports whether a response has landed since the last
	// ResetReceived call.
	Received func() bool
	// ResetReceived clears the received flag before a new request.
	ResetReceived func()
	// Response returns the most recently decoded response.
	Response func() Response
	// TimeMillis reads the shared hardware clock the timeout is
	// measured against.
	TimeMillis func() uint32
}

// Request publishes a RequestParam message for name, then spins until
// a response arrives or timeout elapses, returning which happened.
// The received flag is cleared before publishing — not after — so a
// stale flag from an unrelated prior fetch can't be misread as this
// fetch's answer.
func (f Fetcher) Request(name string, timeout time.Duration) bool {
	f.ResetReceived()
	if err := f.Publish(name); err != nil {
		return false
	}
	start := f.TimeMillis()
	timeoutMs := uint32(timeout.Milliseconds())
	for !f.Received() {
		f.SpinOnce()
		if f.TimeMillis()-start > timeoutMs {
			return false
		}
	}
	return true
}

// Ints fetches name and copies it into out only if the response's int
// array is exactly len(out) long.
func (f Fetcher) Ints(name string, timeout time.Duration, out []int32) bool {
	if !f.Request(name, timeout) {
		return false
	}
	resp := f.Response()
	if len(resp.Ints) != len(out) {
		return false
	}
	copy(out, resp.Ints)
	return true
}

// Floats fetches name and copies it into out only if the response's
// float array is exactly len(out) long.
func (f Fetcher) Floats(name string, timeout time.Duration, out []float32) bool {
	if !f.Request(name, timeout) {
		return false
	}
	resp := f.Response()
	if len(resp.Floats) != len(out) {
		return false
	}
	copy(out, resp.Floats)
	return true
}

// Strings fetches name and copies it into out only if the response's
// string array is exactly len(out) long.
func (f Fetcher) Strings(name string, timeout time.Duration, out []string) bool {
	if !f.Request(name, timeout) {
		return false
	}
	resp := f.Response()
	if len(resp.Strings) != len(out) {
		return false
	}
	copy(out, resp.Strings)
	return true
}
