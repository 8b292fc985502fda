package timesync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequest_NoOpWhileInFlight(t *testing.T) {
	var s State
	require.True(t, s.Request(100))
	require.False(t, s.Request(150), "a second request must be a no-op while one is in flight")
	require.Equal(t, TimeMillis(100), s.Start)
}

func TestComplete_ComputesHalfRoundTripOffset(t *testing.T) {
	var s State
	s.Request(1000)
	// Round trip took 40ms; offset is 20ms.
	got := s.Complete(1040, Timestamp{Sec: 10, Nsec: 0})
	require.Equal(t, Timestamp{Sec: 10, Nsec: 20_000_000}, got)
	require.Equal(t, TimeMillis(0), s.Start, "Start must clear once the sync completes")
}

func TestComplete_CarriesNanosecondOverflowIntoSeconds(t *testing.T) {
	var s State
	s.Request(0)
	got := s.Complete(1998, Timestamp{Sec: 5, Nsec: 999_000_000})
	// offset = 999ms; 999_000_000 + 999_000_000 = 1_998_000_000ns
	require.Equal(t, Timestamp{Sec: 6, Nsec: 998_000_000}, got)
}

func TestNow_MonotonicBetweenSyncs(t *testing.T) {
	var s State
	s.Request(0)
	s.Complete(100, Timestamp{Sec: 1, Nsec: 0})

	prev := s.Now(100)
	for tick := TimeMillis(101); tick <= 500; tick += 37 {
		cur := s.Now(tick)
		require.True(t, cur.Sec > prev.Sec || (cur.Sec == prev.Sec && cur.Nsec >= prev.Nsec),
			"now() must be non-decreasing between syncs")
		prev = cur
	}
}

func TestCancel_AllowsImmediateRequestAfterDisconnect(t *testing.T) {
	var s State
	s.Request(10)
	s.Cancel()
	require.True(t, s.Request(20), "a cancelled sync must not block the next request")
}
