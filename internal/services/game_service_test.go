package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkrogh/academy/internal/deck"
	apperrors "github.com/mkrogh/academy/internal/errors"
	"github.com/mkrogh/academy/internal/models"
	"github.com/mkrogh/academy/internal/repository"
	"github.com/mkrogh/academy/internal/season"
	"github.com/mkrogh/academy/internal/testutil/mocks"
)

// stubStatsService records finish notifications without touching storage.
type stubStatsService struct {
	finished []int64
	err      error
}

func (s *stubStatsService) OnGameFinished(ctx context.Context, gameID int64) error {
	s.finished = append(s.finished, gameID)
	return s.err
}

func (s *stubStatsService) Recalculate(ctx context.Context, userID int64, target season.Season) error {
	return s.err
}

func (s *stubStatsService) RecalculatePlayer(ctx context.Context, userID int64) error {
	return s.err
}

func (s *stubStatsService) PlayerStat(ctx context.Context, userID int64, target season.Season) (*models.PlayerStat, error) {
	return nil, s.err
}

func TestGameService_StartGame(t *testing.T) {
	gameRepo := new(mocks.MockGameRepository)
	userRepo := new(mocks.MockUserRepository)
	userRepo.On("Get", mock.Anything, mock.Anything).Return(&models.User{ID: 1}, nil)
	gameRepo.On("Insert", mock.Anything, mock.AnythingOfType("models.Game"), []int64{1, 2, 3}).Return(int64(42), nil)

	svc := NewGameService(gameRepo, userRepo, &stubStatsService{})
	game, err := svc.StartGame(context.Background(), []int64{1, 2, 3}, true, "friday")
	require.NoError(t, err)

	assert.Equal(t, int64(42), game.ID)
	assert.NotEmpty(t, game.Token)
	assert.Equal(t, models.StandardSipsPerBeer, game.SipsPerBeer)
	assert.True(t, game.Official)
	assert.True(t, game.IsLive())
}

func TestGameService_StartGame_Validation(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	userRepo.On("Get", mock.Anything, mock.Anything).Return(&models.User{ID: 1}, nil)
	svc := NewGameService(new(mocks.MockGameRepository), userRepo, &stubStatsService{})

	cases := []struct {
		name    string
		players []int64
	}{
		{"too few", []int64{1}},
		{"too many", []int64{1, 2, 3, 4, 5, 6, 7}},
		{"duplicate", []int64{1, 2, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.StartGame(context.Background(), tc.players, true, "")
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
		})
	}
}

func TestGameService_GameDetail_RoundsPadding(t *testing.T) {
	start := time.Now().UTC().Add(-time.Minute)
	game := &models.Game{ID: 4, Seed: 11, StartDatetime: &start, Official: true}
	players := []models.GamePlayer{
		{GameID: 4, UserID: 1, Position: 0},
		{GameID: 4, UserID: 2, Position: 1},
	}
	shuffled := deck.Shuffled(2, game.Seed)[:3]
	cards := make([]models.Card, 0, len(shuffled))
	for i, c := range shuffled {
		cards = append(cards, models.Card{GameID: 4, Index: i, Value: c.Value, Suit: c.Suit})
	}

	gameRepo := new(mocks.MockGameRepository)
	gameRepo.On("Get", mock.Anything, int64(4)).Return(game, nil)
	gameRepo.On("Players", mock.Anything, int64(4)).Return(players, nil)
	gameRepo.On("Cards", mock.Anything, int64(4)).Return(cards, nil)

	svc := NewGameService(gameRepo, new(mocks.MockUserRepository), &stubStatsService{})
	detail, err := svc.GameDetail(context.Background(), 4)
	require.NoError(t, err)

	require.Len(t, detail.Rounds, deck.TotalRounds)
	require.Len(t, detail.Rounds[0], 2)
	assert.NotNil(t, detail.Rounds[0][0])
	assert.NotNil(t, detail.Rounds[0][1])
	assert.NotNil(t, detail.Rounds[1][0])
	assert.Nil(t, detail.Rounds[1][1])
	for _, round := range detail.Rounds[2:] {
		for _, card := range round {
			assert.Nil(t, card)
		}
	}
	assert.Nil(t, detail.SeasonNumber)
}

func TestGameService_GameDetailByToken(t *testing.T) {
	end := time.Date(2019, 3, 2, 21, 0, 0, 0, time.UTC)
	game, players, cards := completeGame(12, end)
	game.Token = "7b1d2a90-f00d-4c4e-9f3a-2d5a8c6e1b42"

	gameRepo := new(mocks.MockGameRepository)
	gameRepo.On("GetByToken", mock.Anything, game.Token).Return(game, nil)
	gameRepo.On("Players", mock.Anything, int64(12)).Return(players, nil)
	gameRepo.On("Cards", mock.Anything, int64(12)).Return(cards, nil)

	svc := NewGameService(gameRepo, new(mocks.MockUserRepository), &stubStatsService{})
	detail, err := svc.GameDetailByToken(context.Background(), game.Token)
	require.NoError(t, err)

	assert.Equal(t, int64(12), detail.Game.ID)
	require.NotNil(t, detail.SeasonNumber)
	assert.Equal(t, season.FromDate(end).Number, *detail.SeasonNumber)
	require.Len(t, detail.Rounds, deck.TotalRounds)
	for _, round := range detail.Rounds {
		for _, card := range round {
			assert.NotNil(t, card)
		}
	}
}

func TestGameService_GameDetailByToken_NotFound(t *testing.T) {
	gameRepo := new(mocks.MockGameRepository)
	gameRepo.On("GetByToken", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	svc := NewGameService(gameRepo, new(mocks.MockUserRepository), &stubStatsService{})
	_, err := svc.GameDetailByToken(context.Background(), "missing")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestGameService_DrawCard_FollowsShuffle(t *testing.T) {
	start := time.Now().UTC().Add(-time.Minute)
	game := &models.Game{ID: 5, Seed: 99, StartDatetime: &start, Official: true}
	players := []models.GamePlayer{
		{GameID: 5, UserID: 1, Position: 0},
		{GameID: 5, UserID: 2, Position: 1},
	}

	gameRepo := new(mocks.MockGameRepository)
	gameRepo.On("Get", mock.Anything, int64(5)).Return(game, nil)
	gameRepo.On("Players", mock.Anything, int64(5)).Return(players, nil)
	gameRepo.On("Cards", mock.Anything, int64(5)).Return([]models.Card{}, nil)
	gameRepo.On("InsertCard", mock.Anything, mock.AnythingOfType("models.Card")).Return(nil)

	svc := NewGameService(gameRepo, new(mocks.MockUserRepository), &stubStatsService{})
	card, err := svc.DrawCard(context.Background(), 5)
	require.NoError(t, err)

	want := deck.Shuffled(2, 99)[0]
	assert.Equal(t, 0, card.Index)
	assert.Equal(t, want.Value, card.Value)
	assert.Equal(t, want.Suit, card.Suit)
	require.NotNil(t, card.DrawnDatetime)
}

func TestGameService_DrawCard_ExhaustedDeck(t *testing.T) {
	start := time.Now().UTC().Add(-time.Hour)
	game := &models.Game{ID: 6, Seed: 1, StartDatetime: &start}
	players := []models.GamePlayer{
		{GameID: 6, UserID: 1, Position: 0},
		{GameID: 6, UserID: 2, Position: 1},
	}
	cards := make([]models.Card, deck.TotalCards(2))

	gameRepo := new(mocks.MockGameRepository)
	gameRepo.On("Get", mock.Anything, int64(6)).Return(game, nil)
	gameRepo.On("Players", mock.Anything, int64(6)).Return(players, nil)
	gameRepo.On("Cards", mock.Anything, int64(6)).Return(cards, nil)

	svc := NewGameService(gameRepo, new(mocks.MockUserRepository), &stubStatsService{})
	_, err := svc.DrawCard(context.Background(), 6)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestGameService_RecordChug_OnlyAces(t *testing.T) {
	gameRepo := new(mocks.MockGameRepository)
	gameRepo.On("Cards", mock.Anything, int64(7)).Return([]models.Card{
		{GameID: 7, Index: 0, Value: 9, Suit: "S"},
		{GameID: 7, Index: 1, Value: models.AceValue, Suit: "H"},
	}, nil)
	gameRepo.On("InsertChug", mock.Anything, int64(7), 1, int64(3210)).Return(nil)

	svc := NewGameService(gameRepo, new(mocks.MockUserRepository), &stubStatsService{})

	err := svc.RecordChug(context.Background(), 7, 0, 3210)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)

	require.NoError(t, svc.RecordChug(context.Background(), 7, 1, 3210))
	gameRepo.AssertCalled(t, "InsertChug", mock.Anything, int64(7), 1, int64(3210))
}

func TestGameService_FinishGame_TriggersStats(t *testing.T) {
	end := time.Date(2024, 4, 1, 20, 0, 0, 0, time.UTC)
	game, players, cards := completeGame(8, end)
	game.EndDatetime = nil

	gameRepo := new(mocks.MockGameRepository)
	gameRepo.On("Get", mock.Anything, int64(8)).Return(game, nil)
	gameRepo.On("Players", mock.Anything, int64(8)).Return(players, nil)
	gameRepo.On("Cards", mock.Anything, int64(8)).Return(cards, nil)
	gameRepo.On("Finish", mock.Anything, int64(8), mock.AnythingOfType("time.Time"), "").Return(nil)

	stats := &stubStatsService{}
	svc := NewGameService(gameRepo, new(mocks.MockUserRepository), stats)

	finished, err := svc.FinishGame(context.Background(), 8, "")
	require.NoError(t, err)
	require.NotNil(t, finished.EndDatetime)
	assert.Equal(t, []int64{8}, stats.finished)
}

func TestGameService_FinishGame_RequiresAllCards(t *testing.T) {
	end := time.Date(2024, 4, 1, 20, 0, 0, 0, time.UTC)
	game, players, cards := completeGame(9, end)
	game.EndDatetime = nil

	gameRepo := new(mocks.MockGameRepository)
	gameRepo.On("Get", mock.Anything, int64(9)).Return(game, nil)
	gameRepo.On("Players", mock.Anything, int64(9)).Return(players, nil)
	gameRepo.On("Cards", mock.Anything, int64(9)).Return(cards[:len(cards)-1], nil)

	svc := NewGameService(gameRepo, new(mocks.MockUserRepository), &stubStatsService{})
	_, err := svc.FinishGame(context.Background(), 9, "")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	gameRepo.AssertNotCalled(t, "Finish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGameService_MarkStaleDNF(t *testing.T) {
	now := time.Now().UTC()
	staleStart := now.Add(-48 * time.Hour)
	freshStart := now.Add(-10 * time.Minute)
	stale := models.Game{ID: 1, StartDatetime: &staleStart}
	fresh := models.Game{ID: 2, StartDatetime: &freshStart}

	gameRepo := new(mocks.MockGameRepository)
	gameRepo.On("LiveGames", mock.Anything).Return([]models.Game{stale, fresh}, nil)
	gameRepo.On("Cards", mock.Anything, mock.Anything).Return([]models.Card{}, nil)
	gameRepo.On("MarkDNF", mock.Anything, int64(1)).Return(nil)

	svc := NewGameService(gameRepo, new(mocks.MockUserRepository), &stubStatsService{})
	marked, err := svc.MarkStaleDNF(context.Background(), 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, marked)
	gameRepo.AssertNotCalled(t, "MarkDNF", mock.Anything, int64(2))
}
