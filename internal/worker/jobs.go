package worker

import (
	"context"
	"time"

	"github.com/mkrogh/academy/internal/logger"
)

// RecalculatePlayerJob replays one player's full history into fresh
// per-season aggregates.
type RecalculatePlayerJob struct {
	Stats  StatsRecalculator
	UserID int64
}

func (j *RecalculatePlayerJob) Name() string { return "recalculate_player" }

func (j *RecalculatePlayerJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("user_id", j.UserID)
	log.Info("recalculating player stats")
	return j.Stats.RecalculatePlayer(ctx, j.UserID)
}

// DNFSweepJob flags live games that have been idle past the threshold.
type DNFSweepJob struct {
	Games     StaleGameMarker
	Threshold time.Duration
}

func (j *DNFSweepJob) Name() string { return "dnf_sweep" }

func (j *DNFSweepJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	marked, err := j.Games.MarkStaleDNF(ctx, j.Threshold)
	if err != nil {
		return err
	}
	if marked > 0 {
		log.Info("dnf sweep flagged %d stale games", marked)
	}
	return nil
}
