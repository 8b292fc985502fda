package frame

// TopicID identifies a wire channel. Assignment is stable for the
// life of the process; a reset of the node handle (never implemented
// here — the process simply restarts) would be the only way to
// reclaim one.
type TopicID uint16

// Reserved topic identifiers, per the wire protocol.
const (
	// TopicNegotiation is sent host -> client to request the topic
	// catalogue. It aliases TopicPublishers: the same id carries a
	// request inbound and the publisher catalogue outbound.
	TopicNegotiation TopicID = 0
	// TopicPublishers carries one topic-info record per occupied
	// publisher slot, client -> host.
	TopicPublishers TopicID = 0
	// TopicSubscribers carries one topic-info record per occupied
	// subscriber slot, client -> host.
	TopicSubscribers TopicID = 1
	// TopicParameterRequest carries both the request and the
	// response of a parameter fetch.
	TopicParameterRequest TopicID = 6
	// TopicLog carries log records, client -> host.
	TopicLog TopicID = 7
	// TopicTime carries the time-sync request (empty payload) and
	// its reply (host timestamp).
	TopicTime TopicID = 10

	// SubscriberIDBase is the first id in the subscriber range
	// [100, 100+MAX_SUBSCRIBERS). Publisher ids start immediately
	// after the subscriber range.
	SubscriberIDBase TopicID = 100
)

// PublisherIDBase returns the first id in the publisher range, given
// the configured subscriber table capacity.
func PublisherIDBase(maxSubscribers int) TopicID {
	return SubscriberIDBase + TopicID(maxSubscribers)
}
