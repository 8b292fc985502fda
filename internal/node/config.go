package node

// Config holds the tunables spec.md §6.5 recognizes. Defaults below
// match the values the spec states as defaults.
type Config struct {
	MaxPublishers       int
	MaxSubscribers      int
	InputCapacity       int
	MaxBytesPerSpin     int
	SyncPeriodMs        uint32
	ConnectionTimeoutMs uint32
}

// DefaultConfig returns spec.md's stated defaults, plus reasonable
// table sizes and per-spin budget for a small embedded peer.
func DefaultConfig() Config {
	return Config{
		MaxPublishers:       25,
		MaxSubscribers:      25,
		InputCapacity:       512,
		MaxBytesPerSpin:     256,
		SyncPeriodMs:        5000,
		ConnectionTimeoutMs: 15000,
	}
}
