package services

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/mkrogh/academy/internal/deck"
	apperrors "github.com/mkrogh/academy/internal/errors"
	"github.com/mkrogh/academy/internal/logger"
	"github.com/mkrogh/academy/internal/models"
	"github.com/mkrogh/academy/internal/repository"
	"github.com/mkrogh/academy/internal/season"
)

// GameService drives the game lifecycle: creation, card draws, chugs,
// completion and DNF handling.
type GameService interface {
	StartGame(ctx context.Context, playerIDs []int64, official bool, description string) (*models.Game, error)
	Games(ctx context.Context, s season.Season, includeLive bool, limit, offset int) ([]models.Game, error)
	GameDetail(ctx context.Context, gameID int64) (*GameDetail, error)
	// GameDetailByToken resolves a game through its shareable token.
	GameDetailByToken(ctx context.Context, token string) (*GameDetail, error)
	DrawCard(ctx context.Context, gameID int64) (*models.Card, error)
	RecordChug(ctx context.Context, gameID int64, cardIndex int, durationMS int64) error
	FinishGame(ctx context.Context, gameID int64, description string) (*models.Game, error)
	MarkPlayerDNF(ctx context.Context, gameID, userID int64) error
	// MarkStaleDNF flags live games without activity past the threshold
	// and returns how many were flagged.
	MarkStaleDNF(ctx context.Context, threshold time.Duration) (int, error)
}

// GameDetail bundles a game with its derived per-player view.
type GameDetail struct {
	Game         models.Game            `json:"game"`
	Players      []models.GamePlayer    `json:"players"`
	Cards        []models.Card          `json:"cards"`
	Rounds       [][]*models.Card       `json:"rounds"`
	PlayerStats  []deck.PlayerGameStats `json:"player_stats"`
	SeasonNumber *int                   `json:"season_number"`
}

type gameService struct {
	gameRepo repository.GameRepository
	userRepo repository.UserRepository
	statsSvc StatsService
}

// NewGameService creates a new GameService
func NewGameService(gameRepo repository.GameRepository, userRepo repository.UserRepository, statsSvc StatsService) GameService {
	return &gameService{gameRepo: gameRepo, userRepo: userRepo, statsSvc: statsSvc}
}

func (s *gameService) StartGame(ctx context.Context, playerIDs []int64, official bool, description string) (*models.Game, error) {
	log := logger.FromContext(ctx)

	if len(playerIDs) < deck.MinPlayers || len(playerIDs) > deck.MaxPlayers {
		return nil, apperrors.NewValidationError("players", "player count must be between 2 and 6")
	}
	seen := map[int64]bool{}
	for _, id := range playerIDs {
		if seen[id] {
			return nil, apperrors.NewValidationError("players", "duplicate player")
		}
		seen[id] = true
		if _, err := s.userRepo.Get(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewNotFoundError("user", id)
			}
			return nil, apperrors.NewInternalError(err)
		}
	}

	now := time.Now().UTC()
	game := models.Game{
		Token:         uuid.NewString(),
		Seed:          rand.Int63(),
		StartDatetime: &now,
		SipsPerBeer:   models.StandardSipsPerBeer,
		Description:   description,
		Official:      official,
	}

	id, err := s.gameRepo.Insert(ctx, game, playerIDs)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	game.ID = id

	log.Info("game started: id=%d, players=%d, official=%v", id, len(playerIDs), official)
	return &game, nil
}

func (s *gameService) Games(ctx context.Context, target season.Season, includeLive bool, limit, offset int) ([]models.Game, error) {
	start, end := target.Start(), target.End()
	filter := models.GameFilter{
		SeasonStart: &start,
		SeasonEnd:   &end,
		IncludeLive: includeLive && target.IsOpen(),
		Limit:       limit,
		Offset:      offset,
	}
	games, err := s.gameRepo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return games, nil
}

func (s *gameService) GameDetail(ctx context.Context, gameID int64) (*GameDetail, error) {
	game, err := s.gameRepo.Get(ctx, gameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("game", gameID)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return s.detail(ctx, game)
}

func (s *gameService) GameDetailByToken(ctx context.Context, token string) (*GameDetail, error) {
	game, err := s.gameRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("game", token)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return s.detail(ctx, game)
}

func (s *gameService) detail(ctx context.Context, game *models.Game) (*GameDetail, error) {
	players, err := s.gameRepo.Players(ctx, game.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	cards, err := s.gameRepo.Cards(ctx, game.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	detail := &GameDetail{
		Game:        *game,
		Players:     players,
		Cards:       cards,
		Rounds:      deck.Rounds(cards, len(players)),
		PlayerStats: deck.PlayerStats(game, len(players), cards),
	}
	if game.HasEnded() {
		at := game.EndDatetime
		if at == nil {
			at = lastActivity(game, cards)
		}
		if at != nil {
			n := season.FromDate(*at).Number
			detail.SeasonNumber = &n
		}
	}
	return detail, nil
}

func (s *gameService) DrawCard(ctx context.Context, gameID int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithField("game_id", gameID)

	game, err := s.gameRepo.Get(ctx, gameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("game", gameID)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !game.IsLive() {
		return nil, apperrors.NewValidationError("game", "not live")
	}

	players, err := s.gameRepo.Players(ctx, gameID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	cards, err := s.gameRepo.Cards(ctx, gameID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	index := len(cards)
	if index >= deck.TotalCards(len(players)) {
		return nil, apperrors.NewValidationError("game", "all cards have been drawn")
	}

	next := deck.Shuffled(len(players), game.Seed)[index]
	now := time.Now().UTC()
	card := models.Card{
		GameID:        gameID,
		Index:         index,
		Value:         next.Value,
		Suit:          next.Suit,
		DrawnDatetime: &now,
	}
	if err := s.gameRepo.InsertCard(ctx, card); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	log.Debug("card drawn: index=%d, card=%s, seat=%d", index, next, deck.OwnerSeat(index, len(players)))
	return &card, nil
}

func (s *gameService) RecordChug(ctx context.Context, gameID int64, cardIndex int, durationMS int64) error {
	if durationMS <= 0 {
		return apperrors.NewValidationError("duration_ms", "must be positive")
	}

	cards, err := s.gameRepo.Cards(ctx, gameID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if cardIndex < 0 || cardIndex >= len(cards) {
		return apperrors.NewNotFoundError("card", cardIndex)
	}
	card := cards[cardIndex]
	if card.Value != models.AceValue {
		return apperrors.NewValidationError("card", "only aces can be chugged")
	}
	if card.Chug != nil {
		return apperrors.NewValidationError("card", "chug already recorded")
	}

	if err := s.gameRepo.InsertChug(ctx, gameID, cardIndex, durationMS); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *gameService) FinishGame(ctx context.Context, gameID int64, description string) (*models.Game, error) {
	log := logger.FromContext(ctx).WithField("game_id", gameID)

	game, err := s.gameRepo.Get(ctx, gameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("game", gameID)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !game.IsLive() {
		return nil, apperrors.NewValidationError("game", "not live")
	}

	players, err := s.gameRepo.Players(ctx, gameID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	cards, err := s.gameRepo.Cards(ctx, gameID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(cards) != deck.TotalCards(len(players)) {
		return nil, apperrors.NewValidationError("game", "not all cards have been drawn")
	}
	for _, c := range cards {
		if c.Value == models.AceValue && c.Chug == nil {
			return nil, apperrors.NewValidationError("game", "all aces must have a recorded chug")
		}
	}

	if description == "" {
		description = game.Description
	}
	end := time.Now().UTC()
	if err := s.gameRepo.Finish(ctx, gameID, end, description); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.statsSvc.OnGameFinished(ctx, gameID); err != nil {
		// The game is finished either way; a failed stats fold is
		// repairable with a recalculation.
		log.Error("stats update failed after finish: %v", err)
		return nil, err
	}

	game.EndDatetime = &end
	game.Description = description
	log.Info("game finished")
	return game, nil
}

func (s *gameService) MarkPlayerDNF(ctx context.Context, gameID, userID int64) error {
	game, err := s.gameRepo.Get(ctx, gameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFoundError("game", gameID)
		}
		return apperrors.NewInternalError(err)
	}
	if !game.IsLive() {
		return apperrors.NewValidationError("game", "not live")
	}
	if err := s.gameRepo.MarkPlayerDNF(ctx, gameID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFoundError("game player", userID)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *gameService) MarkStaleDNF(ctx context.Context, threshold time.Duration) (int, error) {
	log := logger.FromContext(ctx)

	games, err := s.gameRepo.LiveGames(ctx)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}

	marked := 0
	now := time.Now().UTC()
	for i := range games {
		g := &games[i]
		cards, err := s.gameRepo.Cards(ctx, g.ID)
		if err != nil {
			return marked, apperrors.NewInternalError(err)
		}
		last := lastActivity(g, cards)
		if last == nil || now.Sub(*last) < threshold {
			continue
		}
		if err := s.gameRepo.MarkDNF(ctx, g.ID); err != nil {
			return marked, apperrors.NewInternalError(err)
		}
		marked++
		log.Info("marked stale game dnf: game_id=%d, idle=%v", g.ID, now.Sub(*last))
	}
	return marked, nil
}

// lastActivity is the latest card draw, falling back to the game start.
func lastActivity(g *models.Game, cards []models.Card) *time.Time {
	for i := len(cards) - 1; i >= 0; i-- {
		if cards[i].DrawnDatetime != nil {
			return cards[i].DrawnDatetime
		}
	}
	return g.StartDatetime
}
