package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/mkrogh/academy/internal/logger"
	"github.com/mkrogh/academy/internal/models"
	"github.com/mkrogh/academy/internal/repository"
)

type gameRepository struct {
	db *sql.DB
}

// NewGameRepository creates a new GameRepository implementation
func NewGameRepository(db *sql.DB) repository.GameRepository {
	return &gameRepository{db: db}
}

const gameColumns = "g.id, g.token, g.seed, g.start_datetime, g.end_datetime, g.sips_per_beer, g.description, g.official, g.dnf"

func scanGame(row interface{ Scan(...any) error }) (*models.Game, error) {
	var g models.Game
	err := row.Scan(&g.ID, &g.Token, &g.Seed, &g.StartDatetime, &g.EndDatetime,
		&g.SipsPerBeer, &g.Description, &g.Official, &g.DNF)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gameRepository) Get(ctx context.Context, id int64) (*models.Game, error) {
	g, err := scanGame(r.db.QueryRowContext(ctx, `
SELECT `+gameColumns+` FROM games g WHERE g.id = ?
`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("game_repo").Error("failed to get game: %v", err)
		return nil, err
	}
	return g, nil
}

func (r *gameRepository) GetByToken(ctx context.Context, token string) (*models.Game, error) {
	g, err := scanGame(r.db.QueryRowContext(ctx, `
SELECT `+gameColumns+` FROM games g WHERE g.token = ?
`, token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("game_repo").Error("failed to get game by token: %v", err)
		return nil, err
	}
	return g, nil
}

func (r *gameRepository) List(ctx context.Context, filter models.GameFilter) ([]models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("listing games: user_id=%d, include_live=%v", filter.UserID, filter.IncludeLive)

	query := sqlBuilder.Select(
		"g.id", "g.token", "g.seed", "g.start_datetime", "g.end_datetime",
		"g.sips_per_beer", "g.description", "g.official", "g.dnf",
	).From("games g")

	if filter.UserID != 0 {
		query = query.Join("game_players gp ON gp.game_id = g.id").
			Where(squirrel.Eq{"gp.user_id": filter.UserID})
	}
	if filter.Official != nil {
		query = query.Where(squirrel.Eq{"g.official": *filter.Official})
	}

	if filter.SeasonStart != nil && filter.SeasonEnd != nil {
		window := squirrel.And{
			squirrel.GtOrEq{"g.end_datetime": *filter.SeasonStart},
			squirrel.LtOrEq{"g.end_datetime": *filter.SeasonEnd},
		}
		if filter.IncludeLive {
			query = query.Where(squirrel.Or{
				window,
				squirrel.And{squirrel.Eq{"g.end_datetime": nil}, squirrel.Eq{"g.dnf": false}},
			})
		} else {
			query = query.Where(window)
		}
	} else if !filter.IncludeLive {
		query = query.Where("g.end_datetime IS NOT NULL")
	}

	// Live games first, then most recently ended.
	query = query.OrderBy(
		"CASE WHEN g.end_datetime IS NULL AND g.dnf = 0 THEN 0 ELSE 1 END",
		"COALESCE(g.end_datetime, g.start_datetime) DESC",
		"g.id DESC",
	)

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list games: %v", err)
		return nil, err
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			log.Error("failed to scan game row: %v", err)
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

func (r *gameRepository) Insert(ctx context.Context, game models.Game, playerIDs []int64) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("inserting game with %d players", len(playerIDs))

	var id int64
	err := tx(ctx, r.db, func(t *sql.Tx) error {
		res, err := t.ExecContext(ctx, `
INSERT INTO games (token, seed, start_datetime, end_datetime, sips_per_beer, description, official, dnf)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, game.Token, game.Seed, game.StartDatetime, game.EndDatetime,
			game.SipsPerBeer, game.Description, game.Official, game.DNF)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		for position, userID := range playerIDs {
			if _, err := t.ExecContext(ctx, `
INSERT INTO game_players (game_id, user_id, position) VALUES (?, ?, ?)
`, id, userID, position); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert game: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *gameRepository) Finish(ctx context.Context, id int64, end time.Time, description string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE games SET end_datetime = ?, description = ? WHERE id = ? AND end_datetime IS NULL AND dnf = 0
`, end, description, id)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("game_repo").Error("failed to finish game: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *gameRepository) MarkDNF(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE games SET dnf = 1 WHERE id = ? AND end_datetime IS NULL
`, id)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("game_repo").Error("failed to mark game dnf: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *gameRepository) MarkPlayerDNF(ctx context.Context, gameID, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE game_players SET dnf = 1 WHERE game_id = ? AND user_id = ?
`, gameID, userID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("game_repo").Error("failed to mark player dnf: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *gameRepository) LiveGames(ctx context.Context) ([]models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT `+gameColumns+` FROM games g
WHERE g.end_datetime IS NULL AND g.dnf = 0
ORDER BY g.start_datetime DESC
`)
	if err != nil {
		log.Error("failed to list live games: %v", err)
		return nil, err
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

func (r *gameRepository) Players(ctx context.Context, gameID int64) ([]models.GamePlayer, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT game_id, user_id, position, dnf FROM game_players
WHERE game_id = ? ORDER BY position
`, gameID)
	if err != nil {
		log.Error("failed to list game players: %v", err)
		return nil, err
	}
	defer rows.Close()

	var players []models.GamePlayer
	for rows.Next() {
		var gp models.GamePlayer
		if err := rows.Scan(&gp.GameID, &gp.UserID, &gp.Position, &gp.DNF); err != nil {
			return nil, err
		}
		players = append(players, gp)
	}
	return players, rows.Err()
}

func (r *gameRepository) Cards(ctx context.Context, gameID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT c.game_id, c.card_index, c.value, c.suit, c.drawn_datetime, ch.duration_ms
FROM cards c
LEFT JOIN chugs ch ON ch.game_id = c.game_id AND ch.card_index = c.card_index
WHERE c.game_id = ?
ORDER BY c.card_index
`, gameID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		var chugMS sql.NullInt64
		if err := rows.Scan(&c.GameID, &c.Index, &c.Value, &c.Suit, &c.DrawnDatetime, &chugMS); err != nil {
			return nil, err
		}
		if chugMS.Valid {
			c.Chug = &models.Chug{DurationMS: chugMS.Int64}
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *gameRepository) InsertCard(ctx context.Context, card models.Card) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cards (game_id, card_index, value, suit, drawn_datetime)
VALUES (?, ?, ?, ?, ?)
`, card.GameID, card.Index, card.Value, card.Suit, card.DrawnDatetime)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("game_repo").Error("failed to insert card: %v", err)
	}
	return err
}

func (r *gameRepository) InsertChug(ctx context.Context, gameID int64, cardIndex int, durationMS int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO chugs (game_id, card_index, duration_ms) VALUES (?, ?, ?)
`, gameID, cardIndex, durationMS)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("game_repo").Error("failed to insert chug: %v", err)
	}
	return err
}

func (r *gameRepository) FinishedGamesForPlayer(ctx context.Context, userID int64) ([]models.PlayerGame, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("listing finished games for player: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+gameColumns+`, gp.position, gp.dnf
FROM games g
JOIN game_players gp ON gp.game_id = g.id
WHERE gp.user_id = ? AND g.end_datetime IS NOT NULL AND g.official = 1 AND g.dnf = 0
ORDER BY g.end_datetime, g.id
`, userID)
	if err != nil {
		log.Error("failed to list finished games: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.PlayerGame
	for rows.Next() {
		var pg models.PlayerGame
		g := &pg.Game
		if err := rows.Scan(&g.ID, &g.Token, &g.Seed, &g.StartDatetime, &g.EndDatetime,
			&g.SipsPerBeer, &g.Description, &g.Official, &g.DNF,
			&pg.Position, &pg.PlayerDNF); err != nil {
			return nil, err
		}
		out = append(out, pg)
	}
	return out, rows.Err()
}
