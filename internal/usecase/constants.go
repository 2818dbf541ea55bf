package usecase

const (
	// DefaultWorkers is the shard count used when none is configured.
	DefaultWorkers = 10

	// DefaultMailboxSize bounds every shard's inbound queue.
	DefaultMailboxSize = 1000
)
