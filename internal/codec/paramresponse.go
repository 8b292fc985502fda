package codec

import (
	"encoding/binary"
	"math"
)

// RequestParamResponse is the host's reply to a RequestParamRequest:
// exactly one of Ints, Floats, or Strings is populated per real
// parameter, but all three are decoded since the wire format always
// carries all three counts. No integrity trailer beyond the frame's
// own checksum — matching the real wire format exactly keeps this
// codec compatible with a genuine host implementation's output.
type RequestParamResponse struct {
	Ints    []int32
	Floats  []float32
	Strings []string
}

func (r *RequestParamResponse) Serialize(dst []byte) (int, error) {
	body := make([]byte, 2, 16)
	binary.LittleEndian.PutUint16(body, uint16(len(r.Ints)))
	for _, v := range r.Ints {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		body = append(body, b[:]...)
	}

	var fc [2]byte
	binary.LittleEndian.PutUint16(fc[:], uint16(len(r.Floats)))
	body = append(body, fc[:]...)
	for _, v := range r.Floats {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		body = append(body, b[:]...)
	}

	var sc [2]byte
	binary.LittleEndian.PutUint16(sc[:], uint16(len(r.Strings)))
	body = append(body, sc[:]...)
	for _, s := range r.Strings {
		var l [2]byte
		binary.LittleEndian.PutUint16(l[:], uint16(len(s)))
		body = append(body, l[:]...)
		body = append(body, s...)
	}

	if len(dst) < len(body) {
		return 0, ErrBufferTooSmall
	}
	return copy(dst, body), nil
}

func (r *RequestParamResponse) Deserialize(src []byte) (int, error) {
	off := 0
	readU16 := func() (uint16, bool) {
		if off+2 > len(src) {
			return 0, false
		}
		v := binary.LittleEndian.Uint16(src[off:])
		off += 2
		return v, true
	}

	intCount, ok := readU16()
	if !ok {
		return 0, ErrMalformed
	}
	ints := make([]int32, intCount)
	for i := range ints {
		if off+4 > len(src) {
			return 0, ErrMalformed
		}
		ints[i] = int32(binary.LittleEndian.Uint32(src[off:]))
		off += 4
	}

	floatCount, ok := readU16()
	if !ok {
		return 0, ErrMalformed
	}
	floats := make([]float32, floatCount)
	for i := range floats {
		if off+4 > len(src) {
			return 0, ErrMalformed
		}
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[off:]))
		off += 4
	}

	stringCount, ok := readU16()
	if !ok {
		return 0, ErrMalformed
	}
	strs := make([]string, stringCount)
	for i := range strs {
		sl, ok := readU16()
		if !ok || off+int(sl) > len(src) {
			return 0, ErrMalformed
		}
		strs[i] = string(src[off : off+int(sl)])
		off += int(sl)
	}

	r.Ints = ints
	r.Floats = floats
	r.Strings = strs
	return off, nil
}
