package jobs

import (
	"time"

	"github.com/mkrogh/academy/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool         *worker.Pool
	stats        worker.StatsRecalculator
	games        worker.StaleGameMarker
	dnfThreshold time.Duration
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, stats worker.StatsRecalculator, games worker.StaleGameMarker, dnfThreshold time.Duration) JobQueue {
	return &WorkerQueue{
		pool:         pool,
		stats:        stats,
		games:        games,
		dnfThreshold: dnfThreshold,
	}
}

func (q *WorkerQueue) EnqueueRecalculation(userID int64) error {
	return q.pool.Submit(&worker.RecalculatePlayerJob{
		Stats:  q.stats,
		UserID: userID,
	})
}

func (q *WorkerQueue) EnqueueDNFSweep() error {
	return q.pool.Submit(&worker.DNFSweepJob{
		Games:     q.games,
		Threshold: q.dnfThreshold,
	})
}
