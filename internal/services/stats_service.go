package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	apperrors "github.com/mkrogh/academy/internal/errors"
	"github.com/mkrogh/academy/internal/logger"
	"github.com/mkrogh/academy/internal/models"
	"github.com/mkrogh/academy/internal/repository"
	"github.com/mkrogh/academy/internal/season"
	"github.com/mkrogh/academy/internal/stats"
)

// StatsService maintains the per-(player, season) aggregate records. It is
// the only writer of PlayerStat rows, and serializes writes per key.
type StatsService interface {
	// OnGameFinished folds a just-finished game into the stats of every
	// participant, for the game's season and for all time. Called exactly
	// once per game.
	OnGameFinished(ctx context.Context, gameID int64) error
	// Recalculate rebuilds one (player, season) record from the player's
	// full history. The stored record is replaced atomically or left
	// untouched on failure.
	Recalculate(ctx context.Context, userID int64, s season.Season) error
	// RecalculatePlayer rebuilds all seasons for one player. Cancellation
	// is honored between seasons, never mid-season.
	RecalculatePlayer(ctx context.Context, userID int64) error
	// PlayerStat returns the stored record, or the zero record if the
	// player has no contributions yet.
	PlayerStat(ctx context.Context, userID int64, s season.Season) (*models.PlayerStat, error)
}

type statsService struct {
	gameRepo  repository.GameRepository
	statsRepo repository.StatsRepository
	locks     keyedMutex
}

// NewStatsService creates a new StatsService
func NewStatsService(gameRepo repository.GameRepository, statsRepo repository.StatsRepository) StatsService {
	return &statsService{gameRepo: gameRepo, statsRepo: statsRepo}
}

// keyedMutex hands out one mutex per (player, season) key so read-modify-
// write cycles on the same aggregate never interleave.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[statKey]*sync.Mutex
}

type statKey struct {
	userID       int64
	seasonNumber int
}

func (k *keyedMutex) lock(key statKey) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = map[statKey]*sync.Mutex{}
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (s *statsService) OnGameFinished(ctx context.Context, gameID int64) error {
	log := logger.FromContext(ctx).WithField("game_id", gameID)

	game, err := s.gameRepo.Get(ctx, gameID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if game.DNF && game.IsCompleted() {
		return apperrors.NewConflictError(
			fmt.Sprintf("game %d is marked both finished and dnf", gameID),
			stats.ErrContradictoryGame,
		)
	}
	if !game.IsCompleted() {
		return apperrors.NewValidationError("game", "not finished")
	}
	if !game.Official {
		log.Debug("unofficial game, skipping stats update")
		return nil
	}

	players, err := s.gameRepo.Players(ctx, gameID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	cards, err := s.gameRepo.Cards(ctx, gameID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	gameSeason := season.FromDate(*game.EndDatetime)
	for _, target := range []season.Season{gameSeason, season.AllTime} {
		for _, gp := range players {
			rec := stats.GameRecord{
				Game:        *game,
				PlayerCount: len(players),
				Position:    gp.Position,
				PlayerDNF:   gp.DNF,
				Cards:       cards,
			}
			if err := s.applyLocked(ctx, gp.UserID, target, rec); err != nil {
				return err
			}
		}
	}

	log.Info("stats updated for %d players in season %d and all time", len(players), gameSeason.Number)
	return nil
}

func (s *statsService) applyLocked(ctx context.Context, userID int64, target season.Season, rec stats.GameRecord) error {
	unlock := s.locks.lock(statKey{userID: userID, seasonNumber: target.Number})
	defer unlock()

	ps, err := s.getOrZero(ctx, userID, target.Number)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	next, err := stats.ApplyGame(*ps, rec)
	if err != nil {
		return apperrors.NewConflictError("refusing to fold contradictory game", err)
	}
	if next == *ps {
		return nil
	}
	if err := s.statsRepo.Upsert(ctx, next); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *statsService) Recalculate(ctx context.Context, userID int64, target season.Season) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"user_id": userID,
		"season":  target.Number,
	})

	unlock := s.locks.lock(statKey{userID: userID, seasonNumber: target.Number})
	defer unlock()

	recs, err := s.gameRecords(ctx, userID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	// Build the replacement in memory first; the single upsert below is
	// the only visible write, so a failure partway leaves the old record.
	ps, err := stats.Recompute(userID, target, recs)
	if err != nil {
		return apperrors.NewConflictError("refusing to fold contradictory game", err)
	}
	if err := s.statsRepo.Upsert(ctx, ps); err != nil {
		return apperrors.NewInternalError(err)
	}

	log.Debug("recalculated: games=%d, sips=%d", ps.TotalGames, ps.TotalSips)
	return nil
}

func (s *statsService) RecalculatePlayer(ctx context.Context, userID int64) error {
	for n := season.AllTimeNumber; n <= season.Current().Number; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := season.FromNumber(n)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		if err := s.Recalculate(ctx, userID, target); err != nil {
			return err
		}
	}
	return nil
}

func (s *statsService) PlayerStat(ctx context.Context, userID int64, target season.Season) (*models.PlayerStat, error) {
	ps, err := s.getOrZero(ctx, userID, target.Number)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return ps, nil
}

func (s *statsService) getOrZero(ctx context.Context, userID int64, seasonNumber int) (*models.PlayerStat, error) {
	ps, err := s.statsRepo.Get(ctx, userID, seasonNumber)
	if errors.Is(err, repository.ErrNotFound) {
		zero := stats.NewStat(userID, seasonNumber)
		return &zero, nil
	}
	return ps, err
}

// gameRecords loads everything a replay needs for one player.
func (s *statsService) gameRecords(ctx context.Context, userID int64) ([]stats.GameRecord, error) {
	participations, err := s.gameRepo.FinishedGamesForPlayer(ctx, userID)
	if err != nil {
		return nil, err
	}

	recs := make([]stats.GameRecord, 0, len(participations))
	for _, pg := range participations {
		players, err := s.gameRepo.Players(ctx, pg.Game.ID)
		if err != nil {
			return nil, err
		}
		cards, err := s.gameRepo.Cards(ctx, pg.Game.ID)
		if err != nil {
			return nil, err
		}
		recs = append(recs, stats.GameRecord{
			Game:        pg.Game,
			PlayerCount: len(players),
			Position:    pg.Position,
			PlayerDNF:   pg.PlayerDNF,
			Cards:       cards,
		})
	}
	return recs, nil
}
