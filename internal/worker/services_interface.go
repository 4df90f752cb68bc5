package worker

import (
	"context"
	"time"
)

// StatsRecalculator is the slice of the stats service jobs need.
// This avoids import cycles by not importing the services package.
type StatsRecalculator interface {
	RecalculatePlayer(ctx context.Context, userID int64) error
}

// StaleGameMarker is the slice of the game service the DNF sweep needs.
type StaleGameMarker interface {
	MarkStaleDNF(ctx context.Context, threshold time.Duration) (int, error)
}
