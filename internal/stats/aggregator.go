// Package stats implements the PlayerStat fold: the pure transform applied
// once per finished game, and the full recomputation that replays a
// player's history from scratch. Both paths must converge to the same
// record; persistence is the caller's concern.
package stats

import (
	"errors"

	"github.com/mkrogh/academy/internal/deck"
	"github.com/mkrogh/academy/internal/models"
	"github.com/mkrogh/academy/internal/season"
)

// ErrContradictoryGame marks a game that is both finished and DNF. Such a
// game must never be folded into an aggregate.
var ErrContradictoryGame = errors.New("game is marked both finished and dnf")

// GameRecord is everything the fold needs to know about one participation.
// Cards are ordered by draw index, with chugs attached to aces.
type GameRecord struct {
	Game        models.Game
	PlayerCount int
	Position    int
	PlayerDNF   bool
	Cards       []models.Card
}

// NewStat returns the zero record for a (player, season) key.
func NewStat(userID int64, seasonNumber int) models.PlayerStat {
	return models.PlayerStat{UserID: userID, SeasonNumber: seasonNumber}
}

// ApplyGame folds one game into the aggregate and returns the new record.
// Unofficial games, DNF games and participations where the player
// personally DNF'd contribute nothing. Best/worst/fastest selections use
// strict comparisons with a lower-game-ID tie-break, which makes the fold
// commutative and recomputation order-independent.
func ApplyGame(ps models.PlayerStat, rec GameRecord) (models.PlayerStat, error) {
	if rec.Game.DNF && rec.Game.EndDatetime != nil {
		return ps, ErrContradictoryGame
	}
	if !rec.Game.Official || rec.Game.DNF || rec.PlayerDNF || !rec.Game.IsCompleted() {
		return ps, nil
	}

	ps.TotalGames++
	if d := rec.Game.Duration(); d != nil {
		ps.TotalTimePlayedSeconds += d.Seconds()
	}

	gameSips := 0
	for i := range rec.Cards {
		c := &rec.Cards[i]
		if deck.OwnerSeat(c.Index, rec.PlayerCount) != rec.Position {
			continue
		}
		gameSips += c.Value

		if c.Chug != nil {
			ps.TotalChugs++
			ps.TotalChugTimeMS += c.Chug.DurationMS
			if betterDuration(c.Chug.DurationMS, rec.Game.ID, ps.FastestChugMS, ps.FastestChugGameID) {
				ms := c.Chug.DurationMS
				id := rec.Game.ID
				ps.FastestChugMS = &ms
				ps.FastestChugGameID = &id
			}
		}
	}
	ps.TotalSips += gameSips

	if betterSips(gameSips, rec.Game.ID, ps.BestGameSips, ps.BestGameID, false) {
		sips, id := gameSips, rec.Game.ID
		ps.BestGameSips = &sips
		ps.BestGameID = &id
	}
	if betterSips(gameSips, rec.Game.ID, ps.WorstGameSips, ps.WorstGameID, true) {
		sips, id := gameSips, rec.Game.ID
		ps.WorstGameSips = &sips
		ps.WorstGameID = &id
	}

	return ps, nil
}

// Recompute builds the record for a (player, season) from scratch by
// replaying every qualifying game. The result does not depend on the order
// of recs.
func Recompute(userID int64, s season.Season, recs []GameRecord) (models.PlayerStat, error) {
	ps := NewStat(userID, s.Number)
	for _, rec := range recs {
		if !InSeason(&rec.Game, s, false) {
			continue
		}
		next, err := ApplyGame(ps, rec)
		if err != nil {
			return ps, err
		}
		ps = next
	}
	return ps, nil
}

// InSeason reports whether a game belongs to a season's window. Membership
// is decided by the completion timestamp. A live game is a member only of
// a still-open season (all time or the current one), and only when the
// caller opted into live data; aggregates never do.
func InSeason(g *models.Game, s season.Season, includeLive bool) bool {
	if g.EndDatetime == nil {
		return includeLive && s.IsOpen()
	}
	return s.Contains(*g.EndDatetime)
}

func betterSips(sips int, gameID int64, curSips *int, curGameID *int64, lessIsBetter bool) bool {
	if curSips == nil {
		return true
	}
	if sips == *curSips {
		return gameID < *curGameID
	}
	if lessIsBetter {
		return sips < *curSips
	}
	return sips > *curSips
}

func betterDuration(ms int64, gameID int64, curMS *int64, curGameID *int64) bool {
	if curMS == nil {
		return true
	}
	if ms == *curMS {
		return gameID < *curGameID
	}
	return ms < *curMS
}
