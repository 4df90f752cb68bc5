package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mkrogh/academy/internal/models"
)

// MockGameRepository is a mock implementation of repository.GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Get(ctx context.Context, id int64) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetByToken(ctx context.Context, token string) (*models.Game, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) List(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Game), args.Error(1)
}

func (m *MockGameRepository) Insert(ctx context.Context, game models.Game, playerIDs []int64) (int64, error) {
	args := m.Called(ctx, game, playerIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGameRepository) Finish(ctx context.Context, id int64, end time.Time, description string) error {
	args := m.Called(ctx, id, end, description)
	return args.Error(0)
}

func (m *MockGameRepository) MarkDNF(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGameRepository) MarkPlayerDNF(ctx context.Context, gameID, userID int64) error {
	args := m.Called(ctx, gameID, userID)
	return args.Error(0)
}

func (m *MockGameRepository) LiveGames(ctx context.Context) ([]models.Game, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Game), args.Error(1)
}

func (m *MockGameRepository) Players(ctx context.Context, gameID int64) ([]models.GamePlayer, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GamePlayer), args.Error(1)
}

func (m *MockGameRepository) Cards(ctx context.Context, gameID int64) ([]models.Card, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockGameRepository) InsertCard(ctx context.Context, card models.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockGameRepository) InsertChug(ctx context.Context, gameID int64, cardIndex int, durationMS int64) error {
	args := m.Called(ctx, gameID, cardIndex, durationMS)
	return args.Error(0)
}

func (m *MockGameRepository) FinishedGamesForPlayer(ctx context.Context, userID int64) ([]models.PlayerGame, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlayerGame), args.Error(1)
}
