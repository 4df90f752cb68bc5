package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mkrogh/academy/internal/errors"
	"github.com/mkrogh/academy/internal/models"
	"github.com/mkrogh/academy/internal/repository"
	"github.com/mkrogh/academy/internal/season"
	"github.com/mkrogh/academy/internal/testutil/mocks"
)

func seasonStats() []models.PlayerStat {
	fast := int64(3500)
	slow := int64(9000)
	return []models.PlayerStat{
		{UserID: 1, SeasonNumber: 13, TotalGames: 4, TotalSips: 400, TotalChugs: 3, FastestChugMS: &fast},
		{UserID: 2, SeasonNumber: 13, TotalGames: 2, TotalSips: 250, TotalChugs: 1, FastestChugMS: &slow},
		{UserID: 3, SeasonNumber: 13, TotalGames: 1, TotalSips: 90},
	}
}

func TestRankingService_Listing(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepository)
	userRepo := new(mocks.MockUserRepository)
	statsRepo.On("ListForSeason", mock.Anything, 13).Return(seasonStats(), nil)
	userRepo.On("Get", mock.Anything, int64(1)).Return(&models.User{ID: 1, Username: "anna"}, nil)
	userRepo.On("Get", mock.Anything, int64(2)).Return(&models.User{ID: 2, Username: "bo"}, nil)
	userRepo.On("Get", mock.Anything, int64(3)).Return(&models.User{ID: 3, Username: "carl"}, nil)

	svc := NewRankingService(statsRepo, userRepo, new(mocks.MockGameRepository))
	target, err := season.FromNumber(13)
	require.NoError(t, err)

	listing, err := svc.Listing(context.Background(), "total_sips", target, 0)
	require.NoError(t, err)

	require.Len(t, listing.Entries, 3)
	assert.Equal(t, "anna", listing.Entries[0].Username)
	assert.Equal(t, 1, listing.Entries[0].Rank)
	assert.Equal(t, float64(400), listing.Entries[0].Value)
	assert.Equal(t, "carl", listing.Entries[2].Username)
}

func TestRankingService_Listing_UnknownKey(t *testing.T) {
	svc := NewRankingService(new(mocks.MockStatsRepository), new(mocks.MockUserRepository), new(mocks.MockGameRepository))

	_, err := svc.Listing(context.Background(), "nope", season.AllTime, 0)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestRankingService_Listing_Limit(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepository)
	userRepo := new(mocks.MockUserRepository)
	statsRepo.On("ListForSeason", mock.Anything, 13).Return(seasonStats(), nil)
	userRepo.On("Get", mock.Anything, int64(1)).Return(&models.User{ID: 1, Username: "anna"}, nil)

	svc := NewRankingService(statsRepo, userRepo, new(mocks.MockGameRepository))
	target, err := season.FromNumber(13)
	require.NoError(t, err)

	listing, err := svc.Listing(context.Background(), "total_sips", target, 1)
	require.NoError(t, err)
	require.Len(t, listing.Entries, 1)
}

func TestRankingService_PlayerRanks(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepository)
	statsRepo.On("ListForSeason", mock.Anything, 13).Return(seasonStats(), nil)

	svc := NewRankingService(statsRepo, new(mocks.MockUserRepository), new(mocks.MockGameRepository))
	target, err := season.FromNumber(13)
	require.NoError(t, err)

	ranks, err := svc.PlayerRanks(context.Background(), 2, target)
	require.NoError(t, err)

	byKey := map[string]PlayerRank{}
	for _, r := range ranks {
		byKey[r.Key] = r
	}
	assert.Equal(t, 2, byKey["total_sips"].Rank)
	// Slowest fastest chug of the two chuggers.
	assert.Equal(t, 2, byKey["fastest_chug"].Rank)
	assert.Equal(t, float64(9000), byKey["fastest_chug"].Value)
	// Player 3 never chugged, so user 2 holds rank 2 of 2 there.
	_, hasChugs := byKey["total_chugs"]
	assert.True(t, hasChugs)
}

func TestRankingService_Achievements(t *testing.T) {
	end := time.Date(2019, 3, 1, 20, 0, 0, 0, time.UTC)
	game, _, _ := completeGame(30, end)
	fast := int64(3500)

	statsRepo := new(mocks.MockStatsRepository)
	gameRepo := new(mocks.MockGameRepository)
	gameRepo.On("FinishedGamesForPlayer", mock.Anything, int64(1)).Return([]models.PlayerGame{
		{Game: *game, Position: 0, PlayerDNF: true},
	}, nil)
	statsRepo.On("Get", mock.Anything, int64(1), season.AllTimeNumber).Return(&models.PlayerStat{
		UserID: 1, SeasonNumber: season.AllTimeNumber, TotalGames: 1, TotalSips: 120, FastestChugMS: &fast,
	}, nil)
	statsRepo.On("ListForSeason", mock.Anything, season.AllTimeNumber).Return([]models.PlayerStat{
		{UserID: 1, SeasonNumber: season.AllTimeNumber, TotalGames: 1, TotalSips: 120},
	}, nil)

	svc := NewRankingService(statsRepo, new(mocks.MockUserRepository), gameRepo)
	statuses, err := svc.Achievements(context.Background(), 1)
	require.NoError(t, err)

	achieved := map[string]bool{}
	for _, s := range statuses {
		achieved[s.Key] = s.Achieved
	}
	assert.True(t, achieved["dnf"])
	assert.True(t, achieved["fast_chugger"])
	assert.True(t, achieved["top10"])
	assert.False(t, achieved["centurion"])
}

func TestRankingService_Achievements_NoHistory(t *testing.T) {
	statsRepo := new(mocks.MockStatsRepository)
	gameRepo := new(mocks.MockGameRepository)
	gameRepo.On("FinishedGamesForPlayer", mock.Anything, int64(5)).Return([]models.PlayerGame{}, nil)
	statsRepo.On("Get", mock.Anything, int64(5), season.AllTimeNumber).Return(nil, repository.ErrNotFound)

	svc := NewRankingService(statsRepo, new(mocks.MockUserRepository), gameRepo)
	statuses, err := svc.Achievements(context.Background(), 5)
	require.NoError(t, err)

	for _, s := range statuses {
		assert.False(t, s.Achieved, s.Key)
	}
}
