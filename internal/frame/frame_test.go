package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bridged/internal/hwport/fake"
)

func emit(t *testing.T, port *fake.Port, topic TopicID, payload []byte) {
	t.Helper()
	w := NewWriter(port)
	require.NoError(t, w.Write(topic, payload))
}

// checksumOf mirrors the receiver's own running checksum so tests can
// assert the checksum law independently of Write.
func checksumOf(topic TopicID, payload []byte) byte {
	length := uint16(len(payload))
	sum := uint32(byte(topic)) + uint32(byte(topic>>8)) + uint32(byte(length)) + uint32(byte(length>>8))
	for _, b := range payload {
		sum += uint32(b)
	}
	return byte(255 - sum%256)
}

func TestWriter_ChecksumLaw(t *testing.T) {
	cases := []struct {
		topic   TopicID
		payload []byte
	}{
		{0, nil},
		{10, []byte{}},
		{100, []byte{0x00}},
		{42, []byte{0x01, 0x02, 0x03, 0xFF, 0x7F}},
		{0xFFFF, make([]byte, 300)},
	}
	for _, tc := range cases {
		port := fake.New()
		emit(t, port, tc.topic, tc.payload)
		out := port.Out.Bytes()
		require.GreaterOrEqual(t, len(out), 7)

		// Recompute the sum of every byte from the topic id onward,
		// including the trailing checksum byte, and assert it is
		// congruent to 255 mod 256.
		var sum uint32
		for _, b := range out[2:] {
			sum += uint32(b)
		}
		require.Equal(t, uint32(255), sum%256)

		wantChecksum := checksumOf(tc.topic, tc.payload)
		require.Equal(t, wantChecksum, out[len(out)-1])
	}
}

func TestWriter_FrameLayout(t *testing.T) {
	port := fake.New()
	emit(t, port, 0x1234, []byte{0xAA, 0xBB})
	out := port.Out.Bytes()
	require.Equal(t, []byte{0xFF, 0xFF, 0x34, 0x12, 0x02, 0x00, 0xAA, 0xBB}, out[:8])
	require.Len(t, out, 9)
}

// feedAll drives the receiver byte by byte and returns every non-empty
// event observed, in order.
func feedAll(r *Receiver, bs []byte) []Event {
	var events []Event
	for _, b := range bs {
		if ev := r.Feed(b); ev.Kind != EventNone {
			events = append(events, ev)
		}
	}
	return events
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		topic   TopicID
		payload []byte
	}{
		{0, nil},
		{10, []byte{}},
		{100, []byte{0x00}},
		{7, []byte("hello")},
		{9999, make([]byte, 64)},
	}
	for _, tc := range cases {
		port := fake.New()
		emit(t, port, tc.topic, tc.payload)

		r := NewReceiver(512)
		events := feedAll(r, port.Out.Bytes())
		require.Len(t, events, 1)
		require.Equal(t, EventFrame, events[0].Kind)
		require.Equal(t, tc.topic, events[0].Topic)
		require.Equal(t, len(tc.payload), len(events[0].Payload))
		for i := range tc.payload {
			require.Equal(t, tc.payload[i], events[0].Payload[i])
		}
	}
}

func TestReceiver_NoOverflow(t *testing.T) {
	r := NewReceiver(8)
	// Declares a 300-byte payload against an 8-byte capacity.
	stream := []byte{0xFF, 0xFF, 0x01, 0x00, 0x2C, 0x01}
	var lastEvent Event
	for _, b := range stream {
		lastEvent = r.Feed(b)
	}
	require.Equal(t, EventError, lastEvent.Kind)
	require.Equal(t, ErrorInvalidSize, lastEvent.Err)
	// The receiver must have reset, not be sitting in stateMessage
	// with a huge remaining count against an 8-byte buffer.
	require.Equal(t, stateFirstFF, r.state)
}

func TestReceiver_Resync(t *testing.T) {
	port := fake.New()
	emit(t, port, 55, []byte{1, 2, 3})
	validFrame := port.Out.Bytes()

	garbage := []byte{0x00, 0x11, 0xFF, 0x22, 0xAB}
	stream := append(append([]byte{}, garbage...), validFrame...)

	r := NewReceiver(64)
	events := feedAll(r, stream)
	require.Len(t, events, 1)
	require.Equal(t, EventFrame, events[0].Kind)
	require.Equal(t, TopicID(55), events[0].Topic)
}

// S1 — empty-payload time-sync frame.
func TestScenario_S1_EmptyPayloadTimeSync(t *testing.T) {
	r := NewReceiver(512)
	stream := []byte{0xFF, 0xFF, 0x0A, 0x00, 0x00, 0x00, 0xF5}
	events := feedAll(r, stream)
	require.Len(t, events, 1)
	require.Equal(t, EventFrame, events[0].Kind)
	require.Equal(t, TopicID(10), events[0].Topic)
	require.Empty(t, events[0].Payload)
}

// S2 — one-byte subscriber frame on topic 100.
func TestScenario_S2_SubscriberFrame(t *testing.T) {
	r := NewReceiver(512)
	stream := []byte{0xFF, 0xFF, 0x64, 0x00, 0x01, 0x00, 0x00, 0x9A}
	events := feedAll(r, stream)
	require.Len(t, events, 1)
	require.Equal(t, EventFrame, events[0].Kind)
	require.Equal(t, TopicID(100), events[0].Topic)
	require.Equal(t, []byte{0x00}, events[0].Payload)
}

// S3 — same as S2 with the checksum byte flipped.
func TestScenario_S3_CorruptedChecksum(t *testing.T) {
	r := NewReceiver(512)
	stream := []byte{0xFF, 0xFF, 0x64, 0x00, 0x01, 0x00, 0x00, 0x9B}
	events := feedAll(r, stream)
	require.Len(t, events, 1)
	require.Equal(t, EventError, events[0].Kind)
	require.Equal(t, ErrorChecksum, events[0].Err)
}

// S4 — oversize frame declaring 512 bytes against a 256-byte capacity.
func TestScenario_S4_OversizeFrame(t *testing.T) {
	r := NewReceiver(256)
	stream := []byte{0xFF, 0xFF, 0x00, 0x00, 0x00, 0x02}
	var lastEvent Event
	for _, b := range stream {
		lastEvent = r.Feed(b)
	}
	require.Equal(t, EventError, lastEvent.Kind)
	require.Equal(t, ErrorInvalidSize, lastEvent.Err)
}
