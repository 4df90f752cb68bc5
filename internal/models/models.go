package models

import "time"

// StandardSipsPerBeer is the number of sips in a regular beer.
const StandardSipsPerBeer = 14

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Game is one played session. EndDatetime is nil while the game is live.
// Legacy imports may also lack StartDatetime and per-card draw times.
type Game struct {
	ID            int64      `json:"id"`
	Token         string     `json:"token"`
	Seed          int64      `json:"seed"`
	StartDatetime *time.Time `json:"start_datetime"`
	EndDatetime   *time.Time `json:"end_datetime"`
	SipsPerBeer   int        `json:"sips_per_beer"`
	Description   string     `json:"description"`
	Official      bool       `json:"official"`
	DNF           bool       `json:"dnf"`
}

func (g *Game) IsCompleted() bool {
	return g.EndDatetime != nil
}

func (g *Game) HasEnded() bool {
	return g.IsCompleted() || g.DNF
}

func (g *Game) IsLive() bool {
	return !g.IsCompleted() && !g.DNF
}

// Duration returns nil when either endpoint is missing.
func (g *Game) Duration() *time.Duration {
	if g.StartDatetime == nil || g.EndDatetime == nil {
		return nil
	}
	d := g.EndDatetime.Sub(*g.StartDatetime)
	return &d
}

// GamePlayer joins a game and a user with the user's fixed seat position.
// A player can DNF individually while the game continues for the rest.
type GamePlayer struct {
	GameID   int64 `json:"game_id"`
	UserID   int64 `json:"user_id"`
	Position int   `json:"position"`
	DNF      bool  `json:"dnf"`
}

// Card is one draw within a game. The owning seat is never stored, it is
// derived from Index (see the deck package).
type Card struct {
	GameID        int64      `json:"game_id"`
	Index         int        `json:"index"`
	Value         int        `json:"value"`
	Suit          string     `json:"suit"`
	DrawnDatetime *time.Time `json:"drawn_datetime"`
	Chug          *Chug      `json:"chug,omitempty"`
}

// AceValue is the only card value that can carry a chug.
const AceValue = 14

// Chug records how long a player took to drink an ace.
type Chug struct {
	DurationMS int64 `json:"duration_ms"`
}

func (c *Chug) Duration() time.Duration {
	return time.Duration(c.DurationMS) * time.Millisecond
}

// GameFilter narrows game listings. Nil/zero fields are ignored.
type GameFilter struct {
	UserID      int64
	Official    *bool
	SeasonStart *time.Time
	SeasonEnd   *time.Time
	IncludeLive bool
	Limit       int
	Offset      int
}

// PlayerGame is one player's participation in a game.
type PlayerGame struct {
	Game      Game `json:"game"`
	Position  int  `json:"position"`
	PlayerDNF bool `json:"player_dnf"`
}
