// Package timesync implements the node handle's clock synchronization
// state machine: one outstanding request at a time, a round-trip
// half-offset estimate, and a monotonic "now" derived from the last
// completed sync.
package timesync

// TimeMillis is a local, free-running millisecond reading from
// hwport.Port.TimeMillis. It wraps; every comparison here relies on
// unsigned subtraction being correct across a wraparound as long as
// the two readings being compared are within half the range of each
// other.
type TimeMillis = uint32

// Timestamp is a middleware-domain timestamp: seconds plus
// nanoseconds, matching the wire time message's two uint32 fields.
type Timestamp struct {
	Sec  uint32
	Nsec uint32
}

// AddMillis advances t by ms milliseconds, carrying nanosecond
// overflow into seconds.
func (t Timestamp) AddMillis(ms uint32) Timestamp {
	nsec := uint64(t.Nsec) + uint64(ms)*1_000_000
	sec := uint64(t.Sec) + nsec/1_000_000_000
	nsec %= 1_000_000_000
	return Timestamp{Sec: uint32(sec), Nsec: uint32(nsec)}
}

// State tracks one time-sync cycle: Start is the local time the
// client's request went out (0 means none in flight), End is the
// local time the last sync completed, and Sync is the middleware
// timestamp established at End.
type State struct {
	Start TimeMillis
	End   TimeMillis
	Sync  Timestamp
}

// Request records the start of a new sync attempt at the given local
// time and reports whether the caller should actually publish the
// request. It returns false when a request is already in flight,
// matching the original protocol's "do nothing" behavior rather than
// restarting the in-flight attempt.
func (s *State) Request(now TimeMillis) bool {
	if s.Start != 0 {
		return false
	}
	s.Start = now
	return true
}

// Cancel clears any in-flight request without completing it. Used
// when the connection is declared dead so the next Request is
// accepted immediately rather than waiting on a sync that will never
// arrive.
func (s *State) Cancel() {
	s.Start = 0
}

// Complete finishes the in-flight request using the host's reported
// timestamp and the local time the reply arrived, and returns the
// newly-established sync time. If no request was in flight (Start ==
// 0), the round-trip offset is simply measured against local time 0,
// which matches the original protocol's lack of a guard here.
func (s *State) Complete(now TimeMillis, host Timestamp) Timestamp {
	s.End = now
	offsetMs := (s.End - s.Start) / 2
	s.Sync = host.AddMillis(offsetMs)
	s.Start = 0
	return s.Sync
}

// Now returns the current middleware-domain time, extrapolated from
// the last completed sync. Before any sync has completed this returns
// the zero Timestamp, which callers must treat as undefined per
// spec.md §3 — the node handle gates this behind Connected().
func (s *State) Now(now TimeMillis) Timestamp {
	offsetMs := now - s.End
	return s.Sync.AddMillis(offsetMs)
}
