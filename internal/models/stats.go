package models

import "time"

// PlayerStat is the per-player, per-season aggregate record. Season number 0
// means all time. Only the stats aggregator mutates these fields; everything
// else derives from them.
type PlayerStat struct {
	UserID       int64 `json:"user_id"`
	SeasonNumber int   `json:"season_number"`

	TotalGames             int     `json:"total_games"`
	TotalTimePlayedSeconds float64 `json:"total_time_played_seconds"`
	TotalSips              int     `json:"total_sips"`

	BestGameID    *int64 `json:"best_game_id"`
	BestGameSips  *int   `json:"best_game_sips"`
	WorstGameID   *int64 `json:"worst_game_id"`
	WorstGameSips *int   `json:"worst_game_sips"`

	TotalChugs int `json:"total_chugs"`
	// TotalChugTimeMS is the retained accumulator the average is derived
	// from, so repeated updates never re-average an average.
	TotalChugTimeMS   int64  `json:"total_chug_time_ms"`
	FastestChugMS     *int64 `json:"fastest_chug_ms"`
	FastestChugGameID *int64 `json:"fastest_chug_game_id"`
}

const (
	hoursPerECTS        = 28
	averageBeerPriceDKK = 10
)

func (ps *PlayerStat) TotalTimePlayed() time.Duration {
	return time.Duration(ps.TotalTimePlayedSeconds * float64(time.Second))
}

func (ps *PlayerStat) TotalBeers() float64 {
	return float64(ps.TotalSips) / StandardSipsPerBeer
}

// ApproxECTS estimates study credits worth of time spent playing.
func (ps *PlayerStat) ApproxECTS() float64 {
	hoursPlayed := ps.TotalTimePlayedSeconds / (60 * 60)
	return hoursPlayed / hoursPerECTS
}

func (ps *PlayerStat) ApproxMoneySpentDKK() int {
	return int(ps.TotalBeers() * averageBeerPriceDKK)
}

// AverageGameSips is nil for a player with no games.
func (ps *PlayerStat) AverageGameSips() *float64 {
	if ps.TotalGames == 0 {
		return nil
	}
	avg := float64(ps.TotalSips) / float64(ps.TotalGames)
	return &avg
}

// AverageChugTimeSeconds is nil for a player with no chugs.
func (ps *PlayerStat) AverageChugTimeSeconds() *float64 {
	if ps.TotalChugs == 0 {
		return nil
	}
	avg := float64(ps.TotalChugTimeMS) / 1000 / float64(ps.TotalChugs)
	return &avg
}
