// Package distribution holds the theoretical models the observed results
// are judged against: a continuous approximation for a player's total sips
// over a full game, the exact hypergeometric law for chug counts, and a
// weighted mixture for samples spanning several player counts. The models
// are descriptive; nothing is automatically flagged or rejected.
package distribution

import (
	"fmt"
	"math"
	"strings"

	"github.com/mkrogh/academy/internal/deck"
	"gonum.org/v1/gonum/stat/combin"
	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution gives the theoretical probability of drawing exactly x
// total sips (or chugs) in one full game.
type Distribution interface {
	Prob(x int) float64
	// Exact reports whether Prob is an exact law rather than a
	// continuous approximation.
	Exact() bool
	String() string
}

// Mean and variance of the card value population 2..14.
var (
	sipsMean     float64
	sipsVariance float64
)

func init() {
	for v := deck.MinValue; v <= deck.MaxValue; v++ {
		sipsMean += float64(v)
	}
	cardMean := sipsMean / deck.TotalRounds
	for v := deck.MinValue; v <= deck.MaxValue; v++ {
		d := cardMean - float64(v)
		sipsVariance += d * d
	}
}

type normalApprox struct {
	dist distuv.Normal
	desc string
}

func (n normalApprox) Prob(x int) float64 { return n.dist.Prob(float64(x)) }
func (n normalApprox) Exact() bool        { return false }
func (n normalApprox) String() string     { return n.desc }

// Sips approximates the distribution of one player's total sips over a
// complete game with a normal density. The mean is shifted by 0.5 as a
// continuity correction, and the variance carries a finite population
// correction since the 13 cards are dealt without replacement from 13p.
//
// See https://math.stackexchange.com/a/1300566/19750
func Sips(playerCount int) Distribution {
	mean := sipsMean + 0.5
	totalCards := float64(deck.TotalCards(playerCount))
	fpc := (totalCards - deck.TotalRounds) / (totalCards - 1)
	variance := sipsVariance * fpc
	return normalApprox{
		dist: distuv.Normal{Mu: mean, Sigma: math.Sqrt(variance)},
		desc: fmt.Sprintf("N(%v, %.2f)", mean, variance),
	}
}

type hypergeometric struct {
	populationN int // total cards
	successK    int // aces in the deck
	drawsN      int // cards one player draws
}

// Prob is the exact chance of drawing exactly x successes: the counting
// argument C(K,x)C(N-K,n-x)/C(N,n).
func (h hypergeometric) Prob(x int) float64 {
	if x < 0 || x > h.drawsN || x > h.successK || h.drawsN-x > h.populationN-h.successK {
		return 0
	}
	num := float64(combin.Binomial(h.successK, x)) *
		float64(combin.Binomial(h.populationN-h.successK, h.drawsN-x))
	return num / float64(combin.Binomial(h.populationN, h.drawsN))
}

func (h hypergeometric) Exact() bool { return true }

func (h hypergeometric) String() string {
	return fmt.Sprintf("HyperGeometric(%d, %d, %d)", h.populationN, h.successK, h.drawsN)
}

// Chugs is the exact distribution of how many of the deck's playerCount
// aces end up among one player's 13 cards.
func Chugs(playerCount int) Distribution {
	return hypergeometric{
		populationN: deck.TotalCards(playerCount),
		successK:    playerCount,
		drawsN:      deck.TotalRounds,
	}
}

type mixture struct {
	parts   []Distribution
	weights []float64
}

func (m mixture) Prob(x int) float64 {
	var p float64
	for i, d := range m.parts {
		p += m.weights[i] * d.Prob(x)
	}
	return p
}

func (m mixture) Exact() bool {
	for _, d := range m.parts {
		if !d.Exact() {
			return false
		}
	}
	return true
}

func (m mixture) String() string {
	terms := make([]string, 0, len(m.parts))
	for i, d := range m.parts {
		if m.weights[i] == 0 {
			continue
		}
		terms = append(terms, fmt.Sprintf("%.2f * %s", m.weights[i], d))
	}
	return strings.Join(terms, " + ")
}

// NewMixture combines per-player-count distributions weighted by how often
// each player count occurs in the observed sample. Weights are normalized;
// they must not all be zero.
func NewMixture(parts []Distribution, weights []float64) (Distribution, error) {
	if len(parts) != len(weights) {
		return nil, fmt.Errorf("mixture needs %d weights, got %d", len(parts), len(weights))
	}
	var total float64
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative mixture weight %v", w)
		}
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("mixture weights sum to zero")
	}
	normalized := make([]float64, len(weights))
	for i, w := range weights {
		normalized[i] = w / total
	}
	return mixture{parts: parts, weights: normalized}, nil
}
