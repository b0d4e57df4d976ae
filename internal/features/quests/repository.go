// Package quests — repository.go выполняет операции с таблицей quest_progress.
package quests

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет методы для работы с прогрессом квестов.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий квестов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const upsertProgressSQL = `
	INSERT INTO quest_progress (user_id, quest_id, bucket, progress)
	VALUES ($1, $2, $3, LEAST($4, $5))
	ON CONFLICT (user_id, quest_id, bucket)
	DO UPDATE SET progress = LEAST($5, quest_progress.progress + $4), updated_at = NOW()
`

// AddProgress наращивает прогресс квеста с насыщением потолком.
func (r *Repository) AddProgress(ctx context.Context, userID int64, questID string, bucket time.Time, delta, ceiling int64) error {
	_, err := r.db.Exec(ctx, upsertProgressSQL, userID, questID, bucket, delta, ceiling)
	if err != nil {
		return fmt.Errorf("ошибка прогресса квеста: %w", err)
	}
	return nil
}

// AddProgressTx — то же, но внутри чужой транзакции.
// Используется батчером: все дельты пользователя применяются атомарно.
func (r *Repository) AddProgressTx(ctx context.Context, tx pgx.Tx, userID int64, questID string, bucket time.Time, delta, ceiling int64) error {
	_, err := tx.Exec(ctx, upsertProgressSQL, userID, questID, bucket, delta, ceiling)
	if err != nil {
		return fmt.Errorf("ошибка прогресса квеста: %w", err)
	}
	return nil
}

// ListForBucket возвращает прогресс всех квестов пользователя за период.
func (r *Repository) ListForBucket(ctx context.Context, userID int64, bucket time.Time) ([]*Progress, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, quest_id, bucket, progress, rewarded, updated_at
		 FROM quest_progress WHERE user_id = $1 AND bucket = $2`,
		userID, bucket,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения прогресса: %w", err)
	}
	defer rows.Close()

	var out []*Progress
	for rows.Next() {
		var p Progress
		if err := rows.Scan(&p.UserID, &p.QuestID, &p.Bucket, &p.Value, &p.Rewarded, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования прогресса: %w", err)
		}
		out = append(out, &p)
	}
	return out, nil
}

// MarkRewarded помечает квест награждённым, если прогресс достиг потолка.
// Возвращает false, если потолок не достигнут или награда уже выдана.
func (r *Repository) MarkRewarded(ctx context.Context, userID int64, questID string, bucket time.Time, ceiling int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE quest_progress
		 SET rewarded = TRUE, updated_at = NOW()
		 WHERE user_id = $1 AND quest_id = $2 AND bucket = $3
		   AND progress >= $4 AND NOT rewarded`,
		userID, questID, bucket, ceiling,
	)
	if err != nil {
		return false, fmt.Errorf("ошибка выдачи награды: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
