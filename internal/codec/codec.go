// Package codec defines the message (de)serialization contract the
// frame writer and receive dispatcher use, plus a handful of concrete
// codecs for the bridge's own protocol messages (time sync, log,
// topic catalogue, parameter request/response) and two small example
// application types.
//
// A real deployment generates one codec per application message type
// from a schema; this package only carries the protocol-internal
// messages and enough example types to exercise the rest of the
// module end to end.
package codec

import "errors"

// ErrMalformed is returned by Deserialize when src does not hold a
// valid encoding of the target type. Go idiom replaces the source
// protocol's "negative byte count means failure" convention with an
// explicit error, the way the teacher package favors returning error
// over encoding failure in a return value's sign.
var ErrMalformed = errors.New("codec: malformed payload")

// ErrBufferTooSmall is returned by Serialize when dst cannot hold the
// encoded value.
var ErrBufferTooSmall = errors.New("codec: destination buffer too small")

// Codec encodes a typed value to a byte buffer and decodes the
// reverse. Implementations must not allocate on the hot Serialize
// path reachable from Publish, and must never read past len(src) on
// Deserialize. The parameter-response codec's use of strings is the
// one accepted exception — see codec.RequestParamResponse.
type Codec interface {
	// Serialize writes the encoded value into dst and returns the
	// number of bytes written.
	Serialize(dst []byte) (int, error)
	// Deserialize reads the encoded value from src and returns the
	// number of bytes consumed.
	Deserialize(src []byte) (int, error)
}
