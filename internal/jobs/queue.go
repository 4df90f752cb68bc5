package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueRecalculation(userID int64) error
	EnqueueDNFSweep() error
}
