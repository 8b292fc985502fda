package codec

import "encoding/binary"

// Int32 is an example application message, standing in for a
// code-generated schema like std_msgs/Int32.
type Int32 struct {
	Data int32
}

func (m *Int32) Serialize(dst []byte) (int, error) {
	if len(dst) < 4 {
		return 0, ErrBufferTooSmall
	}
	binary.LittleEndian.PutUint32(dst, uint32(m.Data))
	return 4, nil
}

func (m *Int32) Deserialize(src []byte) (int, error) {
	if len(src) < 4 {
		return 0, ErrMalformed
	}
	m.Data = int32(binary.LittleEndian.Uint32(src))
	return 4, nil
}

// Float32 is an example application message, standing in for a
// code-generated schema like std_msgs/Float32.
type Float32 struct {
	Data float32
}

func (m *Float32) Serialize(dst []byte) (int, error) {
	if len(dst) < 4 {
		return 0, ErrBufferTooSmall
	}
	binary.LittleEndian.PutUint32(dst, float32bits(m.Data))
	return 4, nil
}

func (m *Float32) Deserialize(src []byte) (int, error) {
	if len(src) < 4 {
		return 0, ErrMalformed
	}
	m.Data = float32frombits(binary.LittleEndian.Uint32(src))
	return 4, nil
}

// Time carries the host's middleware-domain timestamp during a time
// sync exchange (wire topic 10). The client's own time-sync request on
// that topic is sent with an empty payload, not as an encoded Time.
type Time struct {
	Sec  uint32
	Nsec uint32
}

func (t *Time) Serialize(dst []byte) (int, error) {
	if len(dst) < 8 {
		return 0, ErrBufferTooSmall
	}
	binary.LittleEndian.PutUint32(dst[0:4], t.Sec)
	binary.LittleEndian.PutUint32(dst[4:8], t.Nsec)
	return 8, nil
}

func (t *Time) Deserialize(src []byte) (int, error) {
	if len(src) < 8 {
		return 0, ErrMalformed
	}
	t.Sec = binary.LittleEndian.Uint32(src[0:4])
	t.Nsec = binary.LittleEndian.Uint32(src[4:8])
	return 8, nil
}

// Log is a log record published on the reserved log topic (7).
type Log struct {
	Level   byte
	Message string
}

func (l *Log) Serialize(dst []byte) (int, error) {
	need := 3 + len(l.Message)
	if len(dst) < need {
		return 0, ErrBufferTooSmall
	}
	dst[0] = l.Level
	binary.LittleEndian.PutUint16(dst[1:3], uint16(len(l.Message)))
	copy(dst[3:need], l.Message)
	return need, nil
}

func (l *Log) Deserialize(src []byte) (int, error) {
	if len(src) < 3 {
		return 0, ErrMalformed
	}
	n := int(binary.LittleEndian.Uint16(src[1:3]))
	need := 3 + n
	if len(src) < need {
		return 0, ErrMalformed
	}
	l.Level = src[0]
	l.Message = string(src[3:need])
	return need, nil
}

// TopicInfo describes one occupied registry slot during topic
// negotiation: the assigned id, the topic name, and the message type
// name.
type TopicInfo struct {
	TopicID     uint16
	TopicName   string
	MessageType string
}

func (t *TopicInfo) Serialize(dst []byte) (int, error) {
	need := 2 + 2 + len(t.TopicName) + 2 + len(t.MessageType)
	if len(dst) < need {
		return 0, ErrBufferTooSmall
	}
	off := 0
	binary.LittleEndian.PutUint16(dst[off:], t.TopicID)
	off += 2
	binary.LittleEndian.PutUint16(dst[off:], uint16(len(t.TopicName)))
	off += 2
	off += copy(dst[off:], t.TopicName)
	binary.LittleEndian.PutUint16(dst[off:], uint16(len(t.MessageType)))
	off += 2
	off += copy(dst[off:], t.MessageType)
	return off, nil
}

func (t *TopicInfo) Deserialize(src []byte) (int, error) {
	off := 0
	readU16 := func() (uint16, bool) {
		if off+2 > len(src) {
			return 0, false
		}
		v := binary.LittleEndian.Uint16(src[off:])
		off += 2
		return v, true
	}
	id, ok := readU16()
	if !ok {
		return 0, ErrMalformed
	}
	nameLen, ok := readU16()
	if !ok || off+int(nameLen) > len(src) {
		return 0, ErrMalformed
	}
	name := string(src[off : off+int(nameLen)])
	off += int(nameLen)
	typeLen, ok := readU16()
	if !ok || off+int(typeLen) > len(src) {
		return 0, ErrMalformed
	}
	msgType := string(src[off : off+int(typeLen)])
	off += int(typeLen)

	t.TopicID = id
	t.TopicName = name
	t.MessageType = msgType
	return off, nil
}

// RequestParamRequest asks the host for the named parameter.
type RequestParamRequest struct {
	Name string
}

func (r *RequestParamRequest) Serialize(dst []byte) (int, error) {
	need := 2 + len(r.Name)
	if len(dst) < need {
		return 0, ErrBufferTooSmall
	}
	binary.LittleEndian.PutUint16(dst[0:2], uint16(len(r.Name)))
	copy(dst[2:need], r.Name)
	return need, nil
}

func (r *RequestParamRequest) Deserialize(src []byte) (int, error) {
	if len(src) < 2 {
		return 0, ErrMalformed
	}
	n := int(binary.LittleEndian.Uint16(src[0:2]))
	need := 2 + n
	if len(src) < need {
		return 0, ErrMalformed
	}
	r.Name = string(src[2:need])
	return need, nil
}
