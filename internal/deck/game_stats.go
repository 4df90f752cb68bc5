package deck

import (
	"time"

	"github.com/mkrogh/academy/internal/models"
)

// PlayerGameStats is one player's in-game aggregation. Timing fields are
// nil for legacy games without draw timestamps; no timing field ever
// defaults to zero.
type PlayerGameStats struct {
	Position    int            `json:"position"`
	TotalSips   int            `json:"total_sips"`
	CardsDrawn  int            `json:"cards_drawn"`
	SipsPerTurn *float64       `json:"sips_per_turn"`
	FullBeers   int            `json:"full_beers"`
	ExtraSips   int            `json:"extra_sips"`
	TotalTime   *time.Duration `json:"total_time"`
	TimePerTurn *time.Duration `json:"time_per_turn"`
	TimePerSip  *time.Duration `json:"time_per_sip"`
}

// TurnDurations derives per-turn durations as deltas between consecutive
// global draw timestamps, starting from the game's start time. The sequence
// stops at the first card without a timestamp.
func TurnDurations(start *time.Time, cards []models.Card) []time.Duration {
	var out []time.Duration
	prev := start
	for i := range cards {
		drawn := cards[i].DrawnDatetime
		if drawn == nil {
			return out
		}
		if prev != nil {
			out = append(out, drawn.Sub(*prev))
		}
		prev = drawn
	}
	return out
}

// Rounds groups cards into rounds of playerCount, padding an incomplete
// trailing round with nils.
func Rounds(cards []models.Card, playerCount int) [][]*models.Card {
	rounds := make([][]*models.Card, 0, TotalRounds)
	for r := 0; r < TotalRounds; r++ {
		round := make([]*models.Card, playerCount)
		for p := 0; p < playerCount; p++ {
			i := r*playerCount + p
			if i < len(cards) {
				round[p] = &cards[i]
			}
		}
		rounds = append(rounds, round)
	}
	return rounds
}

// PlayerStats aggregates the cards drawn so far per seat. For a live game
// the seat that drew the last card is "on the clock": its time spent does
// not yet cover the sips of that last card, so time-per-sip excludes them.
func PlayerStats(game *models.Game, playerCount int, cards []models.Card) []PlayerGameStats {
	n := playerCount
	stats := make([]PlayerGameStats, n)
	for i := range stats {
		stats[i].Position = i
	}

	lastSeat, lastValue := -1, 0
	for i := range cards {
		seat := OwnerSeat(i, n)
		stats[seat].TotalSips += cards[i].Value
		stats[seat].CardsDrawn++
		lastSeat, lastValue = seat, cards[i].Value
	}

	var totalTimes []*time.Duration
	var turnsDone []*int
	totalTimes = make([]*time.Duration, n)
	turnsDone = make([]*int, n)
	if len(cards) > 0 && cards[0].DrawnDatetime != nil {
		for i := 0; i < n; i++ {
			var d time.Duration
			var c int
			totalTimes[i] = &d
			turnsDone[i] = &c
		}
		for i, dt := range TurnDurations(game.StartDatetime, cards) {
			seat := OwnerSeat(i, n)
			*totalTimes[seat] += dt
			*turnsDone[seat]++
		}
	}

	for i := 0; i < n; i++ {
		st := &stats[i]
		st.FullBeers = st.TotalSips / game.SipsPerBeer
		st.ExtraSips = st.TotalSips % game.SipsPerBeer

		st.SipsPerTurn = divSips(st.TotalSips, st.CardsDrawn)
		st.TotalTime = totalTimes[i]
		if turnsDone[i] != nil {
			st.TimePerTurn = divTime(totalTimes[i], *turnsDone[i])
		}

		switch {
		case game.StartDatetime == nil:
			st.TimePerSip = nil
		case lastSeat == i && !game.IsCompleted():
			st.TimePerSip = divTime(totalTimes[i], st.TotalSips-lastValue)
		default:
			st.TimePerSip = divTime(totalTimes[i], st.TotalSips)
		}
	}
	return stats
}

func divSips(sips, turns int) *float64 {
	if turns == 0 {
		return nil
	}
	v := float64(sips) / float64(turns)
	return &v
}

func divTime(total *time.Duration, by int) *time.Duration {
	if total == nil || by == 0 {
		return nil
	}
	d := *total / time.Duration(by)
	return &d
}
