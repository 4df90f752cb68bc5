package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mkrogh/academy/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository handles user data access
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, username string) (*models.User, error)
}

// GameRepository handles game, participation and card data access
type GameRepository interface {
	Get(ctx context.Context, id int64) (*models.Game, error)
	GetByToken(ctx context.Context, token string) (*models.Game, error)
	List(ctx context.Context, filter models.GameFilter) ([]models.Game, error)
	Insert(ctx context.Context, game models.Game, playerIDs []int64) (int64, error)
	Finish(ctx context.Context, id int64, end time.Time, description string) error
	MarkDNF(ctx context.Context, id int64) error
	MarkPlayerDNF(ctx context.Context, gameID, userID int64) error
	LiveGames(ctx context.Context) ([]models.Game, error)

	Players(ctx context.Context, gameID int64) ([]models.GamePlayer, error)
	Cards(ctx context.Context, gameID int64) ([]models.Card, error)
	InsertCard(ctx context.Context, card models.Card) error
	InsertChug(ctx context.Context, gameID int64, cardIndex int, durationMS int64) error

	// FinishedGamesForPlayer returns every finished, official, non-DNF
	// game the user participated in, with their per-player DNF status,
	// ordered by completion time then game id.
	FinishedGamesForPlayer(ctx context.Context, userID int64) ([]models.PlayerGame, error)
}

// StatsRepository handles aggregate records
type StatsRepository interface {
	Get(ctx context.Context, userID int64, seasonNumber int) (*models.PlayerStat, error)
	Upsert(ctx context.Context, ps models.PlayerStat) error
	ListForSeason(ctx context.Context, seasonNumber int) ([]models.PlayerStat, error)
}
