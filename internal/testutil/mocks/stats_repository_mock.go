package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mkrogh/academy/internal/models"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Get(ctx context.Context, userID int64, seasonNumber int) (*models.PlayerStat, error) {
	args := m.Called(ctx, userID, seasonNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStat), args.Error(1)
}

func (m *MockStatsRepository) Upsert(ctx context.Context, ps models.PlayerStat) error {
	args := m.Called(ctx, ps)
	return args.Error(0)
}

func (m *MockStatsRepository) ListForSeason(ctx context.Context, seasonNumber int) ([]models.PlayerStat, error) {
	args := m.Called(ctx, seasonNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlayerStat), args.Error(1)
}
