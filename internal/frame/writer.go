package frame

import (
	"fmt"

	"bridged/internal/hwport"
)

// syncByte starts every frame; spec requires exactly two in a row.
const syncByte = 0xFF

// maxPayload bounds a single frame's payload length, imposed by the
// 16-bit wire length field.
const maxPayload = 0xFFFF

// Writer emits framed messages onto a port: two sync bytes, the
// little-endian topic id, the little-endian payload length, the
// payload, and a trailing checksum byte chosen so the unsigned 8-bit
// sum of every byte from the topic id onward is congruent to 255 mod
// 256.
type Writer struct {
	port hwport.Port
}

// NewWriter binds a Writer to port. The writer never buffers frames;
// every byte is handed to the port in order as soon as it is computed.
func NewWriter(port hwport.Port) *Writer {
	return &Writer{port: port}
}

// Write serializes one frame for topic carrying payload and sends it.
// payload must already be the message's encoded bytes — Write does
// not know about codecs, only bytes.
func (w *Writer) Write(topic TopicID, payload []byte) error {
	if len(payload) > maxPayload {
		return fmt.Errorf("frame: payload too large: %d bytes", len(payload))
	}

	length := uint16(len(payload))
	header := [4]byte{
		byte(topic),
		byte(topic >> 8),
		byte(length),
		byte(length >> 8),
	}

	sum := uint32(header[0]) + uint32(header[1]) + uint32(header[2]) + uint32(header[3])
	for _, b := range payload {
		sum += uint32(b)
	}
	checksum := byte(255 - sum%256)

	i := 0
	put := func(b byte) error {
		if err := w.port.WriteByte(b); err != nil {
			return fmt.Errorf("frame: write byte %d: %w", i, err)
		}
		i++
		return nil
	}

	for _, b := range [...]byte{syncByte, syncByte, header[0], header[1], header[2], header[3]} {
		if err := put(b); err != nil {
			return err
		}
	}
	for _, b := range payload {
		if err := put(b); err != nil {
			return err
		}
	}
	return put(checksum)
}
