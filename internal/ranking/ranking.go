// Package ranking defines the season leaderboards as a fixed registry of
// ranking definitions over PlayerStat records. Adding a leaderboard means
// adding one entry to the registry; nothing self-registers.
package ranking

import (
	"sort"

	"github.com/mkrogh/academy/internal/models"
)

// Ranking is one leaderboard definition. Value extracts the player's value
// for a season, reporting false when the player is unranked there.
type Ranking struct {
	Key          string
	Name         string
	Description  string
	LessIsBetter bool
	Value        func(ps *models.PlayerStat) (float64, bool)
	// Game optionally names the representative game behind the value.
	Game func(ps *models.PlayerStat) *int64
}

// Entry is one row of a ranking listing.
type Entry struct {
	UserID int64   `json:"user_id"`
	Value  float64 `json:"value"`
	GameID *int64  `json:"game_id,omitempty"`
}

// Rankings is the registry, in display order.
var Rankings = []Ranking{
	{
		Key:         "total_sips",
		Name:        "Total sips",
		Description: "Sips drunk over the season",
		Value: func(ps *models.PlayerStat) (float64, bool) {
			return float64(ps.TotalSips), ps.TotalGames > 0
		},
	},
	{
		Key:         "total_chugs",
		Name:        "Total chugs",
		Description: "Aces chugged over the season",
		Value: func(ps *models.PlayerStat) (float64, bool) {
			return float64(ps.TotalChugs), ps.TotalChugs > 0
		},
	},
	{
		Key:          "fastest_chug",
		Name:         "Fastest chug",
		Description:  "Shortest ace chug time",
		LessIsBetter: true,
		Value: func(ps *models.PlayerStat) (float64, bool) {
			if ps.FastestChugMS == nil {
				return 0, false
			}
			return float64(*ps.FastestChugMS), true
		},
		Game: func(ps *models.PlayerStat) *int64 { return ps.FastestChugGameID },
	},
	{
		Key:         "best_game_sips",
		Name:        "Best game",
		Description: "Most sips in a single game",
		Value: func(ps *models.PlayerStat) (float64, bool) {
			if ps.BestGameSips == nil {
				return 0, false
			}
			return float64(*ps.BestGameSips), true
		},
		Game: func(ps *models.PlayerStat) *int64 { return ps.BestGameID },
	},
	{
		Key:         "total_games",
		Name:        "Total games",
		Description: "Games finished over the season",
		Value: func(ps *models.PlayerStat) (float64, bool) {
			return float64(ps.TotalGames), ps.TotalGames > 0
		},
	},
	{
		Key:         "total_time",
		Name:        "Time played",
		Description: "Seconds spent at the table",
		Value: func(ps *models.PlayerStat) (float64, bool) {
			return ps.TotalTimePlayedSeconds, ps.TotalTimePlayedSeconds > 0
		},
	},
}

// FromKey looks a ranking up in the registry.
func FromKey(key string) (Ranking, bool) {
	for _, r := range Rankings {
		if r.Key == key {
			return r, true
		}
	}
	return Ranking{}, false
}

// Better is the single comparator both the listing order and rank lookups
// use. Ties on value resolve by lower user ID.
func (r Ranking) Better(a, b Entry) bool {
	if a.Value != b.Value {
		if r.LessIsBetter {
			return a.Value < b.Value
		}
		return a.Value > b.Value
	}
	return a.UserID < b.UserID
}

// Listing extracts and orders the ranked entries for a season's stats.
func (r Ranking) Listing(stats []models.PlayerStat) []Entry {
	entries := make([]Entry, 0, len(stats))
	for i := range stats {
		ps := &stats[i]
		v, ok := r.Value(ps)
		if !ok {
			continue
		}
		e := Entry{UserID: ps.UserID, Value: v}
		if r.Game != nil {
			e.GameID = r.Game(ps)
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return r.Better(entries[i], entries[j])
	})
	return entries
}

// RankOf returns the 1-based rank of a user within already-extracted
// entries, or false when the user is unranked. It counts strictly better
// entries with the same comparator the listing is sorted by, so the two
// can never diverge.
func (r Ranking) RankOf(entries []Entry, userID int64) (int, bool) {
	var mine *Entry
	for i := range entries {
		if entries[i].UserID == userID {
			mine = &entries[i]
			break
		}
	}
	if mine == nil {
		return 0, false
	}
	rank := 1
	for i := range entries {
		if entries[i].UserID != userID && r.Better(entries[i], *mine) {
			rank++
		}
	}
	return rank, true
}
