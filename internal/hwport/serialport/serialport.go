// Package serialport adapts github.com/tarm/serial, a bulk
// Read([]byte)/Write([]byte) port, to the byte-at-a-time hwport.Port
// contract the node handle expects.
package serialport

import (
	"time"

	"github.com/tarm/serial"

	"bridged/internal/hwport"
)

// Port wraps a real serial line. It keeps a small read-ahead buffer so
// ReadByte doesn't issue one port-level Read syscall per byte when the
// driver has already handed back more than one — the same reasoning
// that has rosserial_java buffer its streams before handing bytes to
// the packet builder one at a time.
type Port struct {
	cfg     serial.Config
	port    *serial.Port
	started time.Time
	buf     []byte
	scratch []byte
}

// New builds an unopened port bound to name at the given baud rate;
// call Init before use. readTimeout bounds how long the underlying
// driver will block on a Read with no data, which in turn bounds how
// stale TimeMillis-based pacing decisions can get if ReadByte is ever
// called from a context that does block on it.
func New(name string, baud int, readTimeout time.Duration) *Port {
	return &Port{
		cfg: serial.Config{
			Name:        name,
			Baud:        baud,
			Parity:      serial.ParityNone,
			ReadTimeout: readTimeout,
		},
		scratch: make([]byte, 256),
	}
}

func (p *Port) Init() error {
	port, err := serial.OpenPort(&p.cfg)
	if err != nil {
		return err
	}
	p.port = port
	p.started = time.Now()
	return nil
}

func (p *Port) ReadByte() (byte, error) {
	if len(p.buf) == 0 {
		n, err := p.port.Read(p.scratch)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, hwport.ErrNoByte
		}
		p.buf = append(p.buf[:0], p.scratch[:n]...)
	}
	b := p.buf[0]
	p.buf = p.buf[1:]
	return b, nil
}

func (p *Port) WriteByte(b byte) error {
	_, err := p.port.Write([]byte{b})
	return err
}

func (p *Port) TimeMillis() uint32 {
	return uint32(time.Since(p.started).Milliseconds())
}

// Close releases the underlying port.
func (p *Port) Close() error {
	if p.port == nil {
		return nil
	}
	return p.port.Close()
}
