// Package games — repository.go пишет историю и статистику мини-игр.
package games

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository работает с таблицами games и game_stats.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий мини-игр.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveGame сохраняет запись одной игры.
func (r *Repository) SaveGame(ctx context.Context, g *Game) error {
	query := `
		INSERT INTO games (user_id, game_type, bet, payout, detail)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, g.UserID, g.GameType, g.Bet, g.Payout, g.Detail)
	if err != nil {
		return fmt.Errorf("ошибка сохранения игры: %w", err)
	}
	return nil
}

// UpdateStats обновляет статистику после игры одним запросом.
func (r *Repository) UpdateStats(ctx context.Context, userID int64, bet, payout int64) error {
	query := `
		INSERT INTO game_stats (user_id, total_games, total_wagered, total_won, biggest_win)
		VALUES ($1, 1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			total_games = game_stats.total_games + 1,
			total_wagered = game_stats.total_wagered + $2,
			total_won = game_stats.total_won + $3,
			biggest_win = GREATEST(game_stats.biggest_win, $3),
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, userID, bet, payout)
	if err != nil {
		return fmt.Errorf("ошибка обновления статистики игр: %w", err)
	}
	return nil
}

// GetStats возвращает статистику пользователя (нулевую, если игр не было).
func (r *Repository) GetStats(ctx context.Context, userID int64) (*Stats, error) {
	query := `
		SELECT user_id, total_games, total_wagered, total_won, biggest_win, updated_at
		FROM game_stats
		WHERE user_id = $1
	`
	var s Stats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.TotalGames, &s.TotalWagered,
		&s.TotalWon, &s.BiggestWin, &s.UpdatedAt,
	)
	if err != nil {
		return &Stats{UserID: userID}, nil
	}
	return &s, nil
}
