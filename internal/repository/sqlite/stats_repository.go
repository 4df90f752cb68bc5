package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkrogh/academy/internal/logger"
	"github.com/mkrogh/academy/internal/models"
	"github.com/mkrogh/academy/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

const statColumns = `user_id, season_number, total_games, total_time_played_seconds, total_sips,
best_game_id, best_game_sips, worst_game_id, worst_game_sips,
total_chugs, total_chug_time_ms, fastest_chug_ms, fastest_chug_game_id`

func scanStat(row interface{ Scan(...any) error }) (*models.PlayerStat, error) {
	var ps models.PlayerStat
	err := row.Scan(&ps.UserID, &ps.SeasonNumber, &ps.TotalGames, &ps.TotalTimePlayedSeconds,
		&ps.TotalSips, &ps.BestGameID, &ps.BestGameSips, &ps.WorstGameID, &ps.WorstGameSips,
		&ps.TotalChugs, &ps.TotalChugTimeMS, &ps.FastestChugMS, &ps.FastestChugGameID)
	if err != nil {
		return nil, err
	}
	return &ps, nil
}

func (r *statsRepository) Get(ctx context.Context, userID int64, seasonNumber int) (*models.PlayerStat, error) {
	ps, err := scanStat(r.db.QueryRowContext(ctx, `
SELECT `+statColumns+` FROM player_stats WHERE user_id = ? AND season_number = ?
`, userID, seasonNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("stats_repo").Error("failed to get player stat: %v", err)
		return nil, err
	}
	return ps, nil
}

// Upsert replaces the whole record in one statement, so readers see either
// the old or the new aggregate, never a partial mix.
func (r *statsRepository) Upsert(ctx context.Context, ps models.PlayerStat) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("upserting player stat: user_id=%d, season=%d", ps.UserID, ps.SeasonNumber)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO player_stats (`+statColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, season_number) DO UPDATE SET
	total_games = excluded.total_games,
	total_time_played_seconds = excluded.total_time_played_seconds,
	total_sips = excluded.total_sips,
	best_game_id = excluded.best_game_id,
	best_game_sips = excluded.best_game_sips,
	worst_game_id = excluded.worst_game_id,
	worst_game_sips = excluded.worst_game_sips,
	total_chugs = excluded.total_chugs,
	total_chug_time_ms = excluded.total_chug_time_ms,
	fastest_chug_ms = excluded.fastest_chug_ms,
	fastest_chug_game_id = excluded.fastest_chug_game_id
`, ps.UserID, ps.SeasonNumber, ps.TotalGames, ps.TotalTimePlayedSeconds, ps.TotalSips,
		ps.BestGameID, ps.BestGameSips, ps.WorstGameID, ps.WorstGameSips,
		ps.TotalChugs, ps.TotalChugTimeMS, ps.FastestChugMS, ps.FastestChugGameID)
	if err != nil {
		log.Error("failed to upsert player stat: %v", err)
	}
	return err
}

func (r *statsRepository) ListForSeason(ctx context.Context, seasonNumber int) ([]models.PlayerStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT `+statColumns+` FROM player_stats WHERE season_number = ? ORDER BY user_id
`, seasonNumber)
	if err != nil {
		log.Error("failed to list player stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.PlayerStat
	for rows.Next() {
		ps, err := scanStat(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, *ps)
	}
	return stats, rows.Err()
}
