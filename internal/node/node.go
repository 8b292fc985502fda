// Package node implements the node handle: the top-level orchestrator
// that multiplexes publishers, subscribers, and parameter requests
// over one framed byte stream, drives the receive state machine,
// keeps the link's clock in sync with the host, and tracks liveness.
package node

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"bridged/internal/codec"
	"bridged/internal/frame"
	"bridged/internal/hwport"
	"bridged/internal/paramstore"
	"bridged/internal/registry"
	"bridged/internal/timesync"
)

// LogLevel matches the severity field of a wire-level Log record.
type LogLevel byte

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
	LogFatal
)

// Counters are the four purely-observational error counts spec.md §7
// requires. None of them are ever surfaced as a returned failure.
type Counters struct {
	InvalidSizeErrors      uint32
	ChecksumErrors         uint32
	FramingStateErrors     uint32
	MalformedMessageErrors uint32
}

// Handle is the node handle: it owns the frame writer, the receive
// buffer, the registry slots (by reference), the counters, and the
// time-sync state. It runs single-threaded and cooperative — nothing
// here takes a lock.
type Handle struct {
	port     hwport.Port
	writer   *frame.Writer
	receiver *frame.Receiver
	pubs     *registry.PublisherTable
	subs     *registry.SubscriberTable
	sync     timesync.State
	cfg      Config
	log      zerolog.Logger

	connected     bool
	paramReceived bool
	paramResponse codec.RequestParamResponse

	counters Counters
	scratch  []byte
}

// New builds a node handle bound to port, configured per cfg. logger
// receives process-local diagnostics only; pass zerolog.Nop() to
// disable them entirely.
func New(port hwport.Port, cfg Config, logger zerolog.Logger) *Handle {
	return &Handle{
		port:     port,
		writer:   frame.NewWriter(port),
		receiver: frame.NewReceiver(cfg.InputCapacity),
		pubs:     registry.NewPublisherTable(cfg.MaxPublishers),
		subs:     registry.NewSubscriberTable(cfg.MaxSubscribers),
		cfg:      cfg,
		log:      logger,
		scratch:  make([]byte, cfg.InputCapacity),
	}
}

// Port returns the underlying hardware port, for read-only diagnostic
// use (e.g. a CLI reporting which device it's attached to). The
// frame-level contract still stands: application code must not write
// to the port directly.
func (h *Handle) Port() hwport.Port { return h.port }

// Advertise binds p to the next free publisher slot. It reports false
// if the publisher table is already full.
func (h *Handle) Advertise(p *registry.Publisher) bool {
	_, ok := h.pubs.Add(p, frame.PublisherIDBase(h.cfg.MaxSubscribers))
	return ok
}

// Subscribe binds s to the next free subscriber slot. It reports
// false if the subscriber table is already full.
func (h *Handle) Subscribe(s *registry.Subscriber) bool {
	_, ok := h.subs.Add(s)
	return ok
}

// Publish serializes msg via its own codec and emits it on p's
// assigned topic. msg is borrowed for the duration of the call.
func (h *Handle) Publish(p *registry.Publisher, msg codec.Codec) error {
	return h.publishRaw(p.ID(), msg)
}

func (h *Handle) publishRaw(topic frame.TopicID, msg codec.Codec) error {
	n, err := msg.Serialize(h.scratch)
	if err != nil {
		return fmt.Errorf("node: serialize topic %d: %w", topic, err)
	}
	return h.writer.Write(topic, h.scratch[:n])
}

// Connected reports whether a time sync has landed within the last
// ConnectionTimeoutMs.
func (h *Handle) Connected() bool { return h.connected }

// Now returns the current middleware-domain time, extrapolated from
// the last completed sync. It is undefined (returns the zero
// timestamp) before the first sync completes — callers should gate on
// Connected().
func (h *Handle) Now() timesync.Timestamp {
	return h.sync.Now(h.port.TimeMillis())
}

// Counters returns a snapshot of the four error counts.
func (h *Handle) Counters() Counters { return h.counters }

// SpinOnce is the bounded, non-blocking pump: it runs connection
// housekeeping, then reads and dispatches at most MaxBytesPerSpin
// bytes, returning the number of bytes actually consumed.
func (h *Handle) SpinOnce() int {
	current := h.port.TimeMillis()

	if h.connected {
		if current-h.sync.End > h.cfg.ConnectionTimeoutMs {
			h.connected = false
			h.sync.Cancel()
			h.receiver.Reset()
			h.log.Debug().Msg("connection timed out; receiver reset")
		} else if current-h.sync.End > h.cfg.SyncPeriodMs {
			h.requestTimeSync(current)
		}
	}

	count := 0
	for ; count < h.cfg.MaxBytesPerSpin; count++ {
		b, err := h.port.ReadByte()
		if err != nil {
			break
		}
		switch ev := h.receiver.Feed(b); ev.Kind {
		case frame.EventFrame:
			h.dispatch(ev.Topic, ev.Payload)
		case frame.EventError:
			h.countError(ev.Err)
		}
	}
	return count
}

func (h *Handle) countError(kind frame.ErrorKind) {
	switch kind {
	case frame.ErrorFramingState:
		h.counters.FramingStateErrors++
	case frame.ErrorInvalidSize:
		h.counters.InvalidSizeErrors++
	case frame.ErrorChecksum:
		h.counters.ChecksumErrors++
	}
	h.log.Debug().Int("kind", int(kind)).Msg("frame receive error")
}

// dispatch runs the five branches spec.md §4.3 describes, in order.
func (h *Handle) dispatch(topic frame.TopicID, payload []byte) {
	switch {
	case topic == frame.TopicNegotiation:
		h.requestTimeSync(h.port.TimeMillis())
		h.negotiateTopics()

	case topic == frame.TopicTime:
		h.completeTimeSync(payload)
		h.connected = true

	case topic == frame.TopicParameterRequest:
		if _, err := h.paramResponse.Deserialize(payload); err == nil {
			h.paramReceived = true
		}

	default:
		if sub, ok := h.subs.Lookup(topic); ok {
			if !sub.Deliver(payload) {
				h.counters.MalformedMessageErrors++
			}
			return
		}
		// Unknown topic on an otherwise checksum-valid frame shares
		// the checksum-error counter with actual checksum mismatches
		// (see DESIGN.md); this is not split into its own count.
		h.counters.ChecksumErrors++
	}
}

func (h *Handle) negotiateTopics() {
	h.pubs.Each(func(p *registry.Publisher) {
		info := codec.TopicInfo{TopicID: uint16(p.ID()), TopicName: p.TopicName(), MessageType: p.MessageType()}
		if err := h.publishRaw(frame.TopicPublishers, &info); err != nil {
			h.log.Debug().Err(err).Str("topic", p.TopicName()).Msg("publisher catalogue entry failed")
		}
	})
	h.subs.Each(func(s *registry.Subscriber) {
		info := codec.TopicInfo{TopicID: uint16(s.ID()), TopicName: s.TopicName(), MessageType: s.MessageType()}
		if err := h.publishRaw(frame.TopicSubscribers, &info); err != nil {
			h.log.Debug().Err(err).Str("topic", s.TopicName()).Msg("subscriber catalogue entry failed")
		}
	})
}

func (h *Handle) requestTimeSync(current uint32) {
	if !h.sync.Request(current) {
		return
	}
	// Publishing an empty time message here, even when this call was
	// triggered by the client's own inbound negotiation topic, is
	// preserved unexplained from the source protocol (spec.md §9). The
	// request frame carries a zero-length payload.
	if err := h.writer.Write(frame.TopicTime, nil); err != nil {
		h.log.Debug().Err(err).Msg("time sync request failed")
	}
}

func (h *Handle) completeTimeSync(payload []byte) {
	var wire codec.Time
	if _, err := wire.Deserialize(payload); err != nil {
		return
	}
	synced := h.sync.Complete(h.port.TimeMillis(), timesync.Timestamp{Sec: wire.Sec, Nsec: wire.Nsec})
	// A wire-level log record for the host's own viewer, not a
	// process-local diagnostic.
	if err := h.Debug(fmt.Sprintf("time sync complete: sec=%d nsec=%d", synced.Sec, synced.Nsec)); err != nil {
		h.log.Debug().Err(err).Msg("wire debug log publish failed")
	}
}

// Log publishes a log record on the reserved log topic, for the host
// middleware's own log viewer — distinct from internal/logging's
// process-local console output.
func (h *Handle) Log(level LogLevel, msg string) error {
	rec := codec.Log{Level: byte(level), Message: msg}
	return h.publishRaw(frame.TopicLog, &rec)
}

func (h *Handle) Debug(msg string) error { return h.Log(LogDebug, msg) }
func (h *Handle) Info(msg string) error  { return h.Log(LogInfo, msg) }
func (h *Handle) Warn(msg string) error  { return h.Log(LogWarn, msg) }
func (h *Handle) Error(msg string) error { return h.Log(LogError, msg) }
func (h *Handle) Fatal(msg string) error { return h.Log(LogFatal, msg) }

func (h *Handle) publishRequestParam(name string) error {
	req := codec.RequestParamRequest{Name: name}
	return h.publishRaw(frame.TopicParameterRequest, &req)
}

func (h *Handle) paramFetcher() paramstore.Fetcher {
	return paramstore.Fetcher{
		Publish:       h.publishRequestParam,
		SpinOnce:      h.SpinOnce,
		Received:      func() bool { return h.paramReceived },
		ResetReceived: func() { h.paramReceived = false },
		Response: func() paramstore.Response {
			return paramstore.Response{
				Ints:    h.paramResponse.Ints,
				Floats:  h.paramResponse.Floats,
				Strings: h.paramResponse.Strings,
			}
		},
		TimeMillis: h.port.TimeMillis,
	}
}

// RequestParam publishes a parameter request for name and busy-spins
// until a response arrives or timeout elapses.
func (h *Handle) RequestParam(name string, timeout time.Duration) bool {
	return h.paramFetcher().Request(name, timeout)
}

// GetParamInts fetches name and copies it into out only on an exact
// length match.
func (h *Handle) GetParamInts(name string, timeout time.Duration, out []int32) bool {
	return h.paramFetcher().Ints(name, timeout, out)
}

// GetParamFloats fetches name and copies it into out only on an exact
// length match.
func (h *Handle) GetParamFloats(name string, timeout time.Duration, out []float32) bool {
	return h.paramFetcher().Floats(name, timeout, out)
}

// GetParamStrings fetches name and copies it into out only on an
// exact length match.
func (h *Handle) GetParamStrings(name string, timeout time.Duration, out []string) bool {
	return h.paramFetcher().Strings(name, timeout, out)
}
