// Package registry holds the fixed-capacity publisher and subscriber
// tables the node handle multiplexes over one frame stream, and the
// contiguous-slot id allocation policy described in spec.md §3/§9.
package registry

import "bridged/internal/frame"

// Identity is the capability every registry slot needs for catalogue
// emission during topic negotiation: its own topic name, message type
// name, and assigned id.
type Identity interface {
	TopicName() string
	MessageType() string
	ID() frame.TopicID
}

// Publisher is an application-owned record bound to a topic id by
// Advertise. The node handle keeps only a pointer to it; Publisher
// itself never touches the port.
type Publisher struct {
	topicName   string
	messageType string
	id          frame.TopicID
}

// NewPublisher creates an unbound publisher record; pass it to
// node.Handle.Advertise to assign it an id.
func NewPublisher(topicName, messageType string) *Publisher {
	return &Publisher{topicName: topicName, messageType: messageType}
}

func (p *Publisher) TopicName() string   { return p.topicName }
func (p *Publisher) MessageType() string { return p.messageType }
func (p *Publisher) ID() frame.TopicID   { return p.id }

// Subscriber is an application-owned record bound to a topic id by
// Subscribe. Callback is invoked synchronously from spin_once's
// dispatch with a payload slice valid only for the duration of the
// call; it must return false to signal the codec rejected the
// payload, which the node handle counts as a malformed message.
type Subscriber struct {
	topicName   string
	messageType string
	id          frame.TopicID
	callback    func(payload []byte) bool
}

// NewSubscriber creates an unbound subscriber record; pass it to
// node.Handle.Subscribe to assign it an id.
func NewSubscriber(topicName, messageType string, callback func(payload []byte) bool) *Subscriber {
	return &Subscriber{topicName: topicName, messageType: messageType, callback: callback}
}

func (s *Subscriber) TopicName() string   { return s.topicName }
func (s *Subscriber) MessageType() string { return s.messageType }
func (s *Subscriber) ID() frame.TopicID   { return s.id }

// Deliver hands payload to the bound callback. A nil callback is
// treated as trivially successful.
func (s *Subscriber) Deliver(payload []byte) bool {
	if s.callback == nil {
		return true
	}
	return s.callback(payload)
}

// PublisherTable is a fixed-capacity, contiguously-filled table of
// publisher slots.
type PublisherTable struct {
	slots []*Publisher
	cap   int
}

// NewPublisherTable allocates a table with room for capacity
// publishers.
func NewPublisherTable(capacity int) *PublisherTable {
	return &PublisherTable{slots: make([]*Publisher, 0, capacity), cap: capacity}
}

// Add occupies the next free slot and assigns p the id idBase+index.
// It reports false if the table is already full.
func (t *PublisherTable) Add(p *Publisher, idBase frame.TopicID) (frame.TopicID, bool) {
	if len(t.slots) >= t.cap {
		return 0, false
	}
	id := idBase + frame.TopicID(len(t.slots))
	p.id = id
	t.slots = append(t.slots, p)
	return id, true
}

// Each calls fn once per occupied slot, in slot order.
func (t *PublisherTable) Each(fn func(*Publisher)) {
	for _, p := range t.slots {
		fn(p)
	}
}

// SubscriberTable is a fixed-capacity, contiguously-filled table of
// subscriber slots, indexed by id for dispatch lookups.
type SubscriberTable struct {
	slots []*Subscriber
	cap   int
}

// NewSubscriberTable allocates a table with room for capacity
// subscribers, occupying ids [frame.SubscriberIDBase,
// frame.SubscriberIDBase+capacity).
func NewSubscriberTable(capacity int) *SubscriberTable {
	return &SubscriberTable{slots: make([]*Subscriber, 0, capacity), cap: capacity}
}

// Add occupies the next free slot and assigns s the next subscriber
// id. It reports false if the table is already full.
func (t *SubscriberTable) Add(s *Subscriber) (frame.TopicID, bool) {
	if len(t.slots) >= t.cap {
		return 0, false
	}
	id := frame.SubscriberIDBase + frame.TopicID(len(t.slots))
	s.id = id
	t.slots = append(t.slots, s)
	return id, true
}

// Lookup returns the subscriber bound to id, if any.
func (t *SubscriberTable) Lookup(id frame.TopicID) (*Subscriber, bool) {
	idx := int(id) - int(frame.SubscriberIDBase)
	if idx < 0 || idx >= len(t.slots) {
		return nil, false
	}
	return t.slots[idx], true
}

// Each calls fn once per occupied slot, in slot order.
func (t *SubscriberTable) Each(fn func(*Subscriber)) {
	for _, s := range t.slots {
		fn(s)
	}
}
