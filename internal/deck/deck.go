// Package deck implements the card model: deck construction for a player
// count, the seeded deterministic shuffle, and the round-robin ownership
// rule that maps a draw index to a seat.
package deck

import (
	"fmt"
	"math/rand"
)

const (
	// TotalRounds is the number of cards each player draws in a full game.
	TotalRounds = 13
	MinValue    = 2
	MaxValue    = 14 // ace
	MinPlayers  = 2
	MaxPlayers  = 6
)

// Suits in deal order; a game with p players uses the first p suits.
var Suits = []struct {
	Code string
	Name string
}{
	{"S", "Spades"},
	{"C", "Clubs"},
	{"H", "Hearts"},
	{"D", "Diamonds"},
	{"A", "Carls"},
	{"I", "Heineken"},
}

var valueNames = map[int]string{
	11: "Jack",
	12: "Queen",
	13: "King",
	14: "Ace",
}

// Card is a (value, suit) pair; value 2..14 with 14 being the ace.
type Card struct {
	Value int    `json:"value"`
	Suit  string `json:"suit"`
}

func (c Card) String() string {
	name := valueNames[c.Value]
	if name == "" {
		name = fmt.Sprintf("%d", c.Value)
	}
	for _, s := range Suits {
		if s.Code == c.Suit {
			return fmt.Sprintf("%s of %s", name, s.Name)
		}
	}
	return fmt.Sprintf("%s of %s", name, c.Suit)
}

// TotalCards returns the deck size for a player count.
func TotalCards(playerCount int) int {
	return TotalRounds * playerCount
}

// Ordered returns the unshuffled deck for a player count: all 13 values of
// each of the first playerCount suits.
func Ordered(playerCount int) []Card {
	cards := make([]Card, 0, TotalCards(playerCount))
	for _, s := range Suits[:playerCount] {
		for v := MinValue; v <= MaxValue; v++ {
			cards = append(cards, Card{Value: v, Suit: s.Code})
		}
	}
	return cards
}

// Shuffled returns the deck permuted by the given seed. The permutation is
// a Fisher-Yates shuffle driven by math/rand with an explicit source, so
// the same seed always yields the same order.
func Shuffled(playerCount int, seed int64) []Card {
	cards := Ordered(playerCount)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

// OwnerSeat returns the seat that owns the card at a draw index. Ownership
// is purely positional and never depends on when cards were drawn.
func OwnerSeat(index, playerCount int) int {
	return index % playerCount
}
