package services

import (
	"context"
	"sort"

	"github.com/mkrogh/academy/internal/deck"
	"github.com/mkrogh/academy/internal/distribution"
	apperrors "github.com/mkrogh/academy/internal/errors"
	"github.com/mkrogh/academy/internal/models"
	"github.com/mkrogh/academy/internal/repository"
	"github.com/mkrogh/academy/internal/season"
)

// Histogram is an observed empirical distribution over integer outcomes.
type Histogram struct {
	Xs     []int     `json:"xs"`
	Counts []int     `json:"counts"`
	Probs  []float64 `json:"probs"`
}

// CurveComparison pairs an observed histogram with the theoretical
// distribution evaluated at the same points.
type CurveComparison struct {
	Description string    `json:"description"`
	Exact       bool      `json:"exact"`
	Observed    Histogram `json:"observed"`
	Theoretical []float64 `json:"theoretical"`
}

// DistributionReport compares observed per-player outcomes in a season
// against the theoretical model.
type DistributionReport struct {
	SeasonNumber int             `json:"season_number"`
	PlayerCount  int             `json:"player_count"`
	SampleSize   int             `json:"sample_size"`
	Sips         CurveComparison `json:"sips"`
	Chugs        CurveComparison `json:"chugs"`
}

// DistributionService builds observed-versus-theoretical reports.
type DistributionService interface {
	// Report compares a season's observed outcomes with the model. A
	// playerCount of zero selects all table sizes and weights the model
	// as a mixture by their observed frequency.
	Report(ctx context.Context, s season.Season, playerCount int) (*DistributionReport, error)
}

type distributionService struct {
	gameRepo repository.GameRepository
}

// NewDistributionService creates a new DistributionService
func NewDistributionService(gameRepo repository.GameRepository) DistributionService {
	return &distributionService{gameRepo: gameRepo}
}

func (s *distributionService) Report(ctx context.Context, target season.Season, playerCount int) (*DistributionReport, error) {
	if playerCount != 0 && (playerCount < deck.MinPlayers || playerCount > deck.MaxPlayers) {
		return nil, apperrors.NewValidationError("player_count", "must be between 2 and 6")
	}

	official := true
	start, end := target.Start(), target.End()
	games, err := s.gameRepo.List(ctx, models.GameFilter{
		Official:    &official,
		SeasonStart: &start,
		SeasonEnd:   &end,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	sipSamples := map[int]int{}
	chugSamples := map[int]int{}
	countFreq := map[int]int{}
	samples := 0
	for i := range games {
		g := &games[i]
		if !g.IsCompleted() || g.DNF {
			continue
		}
		players, err := s.gameRepo.Players(ctx, g.ID)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		p := len(players)
		if playerCount != 0 && p != playerCount {
			continue
		}
		cards, err := s.gameRepo.Cards(ctx, g.ID)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}

		sips := make([]int, p)
		chugs := make([]int, p)
		for _, c := range cards {
			seat := deck.OwnerSeat(c.Index, p)
			sips[seat] += c.Value
			if c.Value == models.AceValue {
				chugs[seat]++
			}
		}
		for seat := 0; seat < p; seat++ {
			sipSamples[sips[seat]]++
			chugSamples[chugs[seat]]++
		}
		// One sample per seat, so a table size's weight is p per game.
		countFreq[p] += p
		samples += p
	}

	sipsModel, err := s.model(distribution.Sips, playerCount, countFreq)
	if err != nil {
		return nil, err
	}
	chugsModel, err := s.model(distribution.Chugs, playerCount, countFreq)
	if err != nil {
		return nil, err
	}

	return &DistributionReport{
		SeasonNumber: target.Number,
		PlayerCount:  playerCount,
		SampleSize:   samples,
		Sips:         compare(sipsModel, sipSamples, samples),
		Chugs:        compare(chugsModel, chugSamples, samples),
	}, nil
}

// model picks the single-table-size distribution, or a mixture weighted by
// each table size's share of the per-player samples when none is fixed.
func (s *distributionService) model(single func(int) distribution.Distribution, playerCount int, countFreq map[int]int) (distribution.Distribution, error) {
	if playerCount != 0 {
		return single(playerCount), nil
	}
	if len(countFreq) == 0 {
		return single(deck.MinPlayers), nil
	}

	counts := make([]int, 0, len(countFreq))
	for p := range countFreq {
		counts = append(counts, p)
	}
	sort.Ints(counts)

	parts := make([]distribution.Distribution, 0, len(counts))
	weights := make([]float64, 0, len(counts))
	for _, p := range counts {
		parts = append(parts, single(p))
		weights = append(weights, float64(countFreq[p]))
	}
	mixture, err := distribution.NewMixture(parts, weights)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return mixture, nil
}

func compare(model distribution.Distribution, samples map[int]int, total int) CurveComparison {
	cmp := CurveComparison{
		Description: model.String(),
		Exact:       model.Exact(),
	}
	if len(samples) == 0 {
		return cmp
	}

	min, max := -1, -1
	for x := range samples {
		if min == -1 || x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	for x := min; x <= max; x++ {
		n := samples[x]
		cmp.Observed.Xs = append(cmp.Observed.Xs, x)
		cmp.Observed.Counts = append(cmp.Observed.Counts, n)
		cmp.Observed.Probs = append(cmp.Observed.Probs, float64(n)/float64(total))
		cmp.Theoretical = append(cmp.Theoretical, model.Prob(x))
	}
	return cmp
}
