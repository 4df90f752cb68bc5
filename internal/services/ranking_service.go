package services

import (
	"context"
	"errors"

	"github.com/mkrogh/academy/internal/achievements"
	apperrors "github.com/mkrogh/academy/internal/errors"
	"github.com/mkrogh/academy/internal/models"
	"github.com/mkrogh/academy/internal/ranking"
	"github.com/mkrogh/academy/internal/repository"
	"github.com/mkrogh/academy/internal/season"
)

const topTenCutoff = 10

// RankingEntry is a ranking row resolved to a user.
type RankingEntry struct {
	Rank     int     `json:"rank"`
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	Value    float64 `json:"value"`
	GameID   *int64  `json:"game_id,omitempty"`
}

// RankingListing is one ranking over one season.
type RankingListing struct {
	Key          string         `json:"key"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	SeasonNumber int            `json:"season_number"`
	Entries      []RankingEntry `json:"entries"`
}

// PlayerRank is a player's position on one ranking.
type PlayerRank struct {
	Key   string  `json:"key"`
	Name  string  `json:"name"`
	Rank  int     `json:"rank"`
	Value float64 `json:"value"`
}

// RankingService produces ranked listings and per-player positions
// from the season aggregates.
type RankingService interface {
	Listing(ctx context.Context, key string, s season.Season, limit int) (*RankingListing, error)
	PlayerRanks(ctx context.Context, userID int64, s season.Season) ([]PlayerRank, error)
	Achievements(ctx context.Context, userID int64) ([]achievements.Status, error)
}

type rankingService struct {
	statsRepo repository.StatsRepository
	userRepo  repository.UserRepository
	gameRepo  repository.GameRepository
}

// NewRankingService creates a new RankingService
func NewRankingService(statsRepo repository.StatsRepository, userRepo repository.UserRepository, gameRepo repository.GameRepository) RankingService {
	return &rankingService{statsRepo: statsRepo, userRepo: userRepo, gameRepo: gameRepo}
}

func (s *rankingService) Listing(ctx context.Context, key string, target season.Season, limit int) (*RankingListing, error) {
	r, ok := ranking.FromKey(key)
	if !ok {
		return nil, apperrors.NewNotFoundError("ranking", key)
	}

	stats, err := s.statsRepo.ListForSeason(ctx, target.Number)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	entries := r.Listing(stats)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	listing := &RankingListing{
		Key:          r.Key,
		Name:         r.Name,
		Description:  r.Description,
		SeasonNumber: target.Number,
		Entries:      make([]RankingEntry, 0, len(entries)),
	}
	for i, e := range entries {
		username, err := s.username(ctx, e.UserID)
		if err != nil {
			return nil, err
		}
		listing.Entries = append(listing.Entries, RankingEntry{
			Rank:     i + 1,
			UserID:   e.UserID,
			Username: username,
			Value:    e.Value,
			GameID:   e.GameID,
		})
	}
	return listing, nil
}

func (s *rankingService) PlayerRanks(ctx context.Context, userID int64, target season.Season) ([]PlayerRank, error) {
	stats, err := s.statsRepo.ListForSeason(ctx, target.Number)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	var ranks []PlayerRank
	for _, r := range ranking.Rankings {
		entries := r.Listing(stats)
		rank, ok := r.RankOf(entries, userID)
		if !ok {
			continue
		}
		var value float64
		for _, e := range entries {
			if e.UserID == userID {
				value = e.Value
				break
			}
		}
		ranks = append(ranks, PlayerRank{Key: r.Key, Name: r.Name, Rank: rank, Value: value})
	}
	return ranks, nil
}

func (s *rankingService) Achievements(ctx context.Context, userID int64) ([]achievements.Status, error) {
	facts, err := s.factsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return achievements.Evaluate(*facts), nil
}

func (s *rankingService) factsFor(ctx context.Context, userID int64) (*achievements.Facts, error) {
	games, err := s.gameRepo.FinishedGamesForPlayer(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	facts := achievements.Facts{TotalGames: len(games)}
	for _, g := range games {
		if g.PlayerDNF {
			facts.DNFInCompletedGame = true
			break
		}
	}

	allTime, err := s.statsRepo.Get(ctx, userID, season.AllTimeNumber)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}
	if allTime != nil {
		if allTime.FastestChugMS != nil && *allTime.FastestChugMS < 4000 {
			facts.ChuggedUnderFourSeconds = true
		}
		facts.TopTenTotalSips = s.isTopTenTotalSips(ctx, allTime)
	}
	return &facts, nil
}

func (s *rankingService) isTopTenTotalSips(ctx context.Context, ps *models.PlayerStat) bool {
	stats, err := s.statsRepo.ListForSeason(ctx, season.AllTimeNumber)
	if err != nil {
		return false
	}
	r, ok := ranking.FromKey("total_sips")
	if !ok {
		return false
	}
	rank, ok := r.RankOf(r.Listing(stats), ps.UserID)
	return ok && rank <= topTenCutoff
}

func (s *rankingService) username(ctx context.Context, userID int64) (string, error) {
	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.NewNotFoundError("user", userID)
		}
		return "", apperrors.NewInternalError(err)
	}
	return u.Username, nil
}
