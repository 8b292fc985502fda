// Package fake provides an in-memory hwport.Port for tests: a byte
// queue standing in for the link's inbound side, a buffer recording
// everything written, and a clock the test drives by hand.
package fake

import (
	"bytes"

	"bridged/internal/hwport"
)

// Port is a deterministic, non-blocking stand-in for a real serial
// link. It is not safe for concurrent use; tests drive it from one
// goroutine, matching the node handle's own cooperative model.
type Port struct {
	in    []byte
	inPos int
	Out   bytes.Buffer
	clock uint32
}

// New returns an empty fake port with the clock at zero.
func New() *Port {
	return &Port{}
}

func (p *Port) Init() error { return nil }

// Feed appends bytes to the inbound queue for later ReadByte calls.
func (p *Port) Feed(bs ...byte) {
	p.in = append(p.in, bs...)
}

func (p *Port) ReadByte() (byte, error) {
	if p.inPos >= len(p.in) {
		return 0, hwport.ErrNoByte
	}
	b := p.in[p.inPos]
	p.inPos++
	return b, nil
}

func (p *Port) WriteByte(b byte) error {
	p.Out.WriteByte(b)
	return nil
}

func (p *Port) TimeMillis() uint32 { return p.clock }

// Advance moves the clock forward by ms milliseconds.
func (p *Port) Advance(ms uint32) { p.clock += ms }

// SetTime pins the clock to an absolute value, including across a
// wraparound boundary — useful for exercising unsigned-subtraction
// comparisons near uint32 overflow.
func (p *Port) SetTime(ms uint32) { p.clock = ms }

// Pending reports how many inbound bytes have not yet been read.
func (p *Port) Pending() int { return len(p.in) - p.inPos }
