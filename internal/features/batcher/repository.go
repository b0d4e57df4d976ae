// Package batcher — repository.go: применение батча к базе.
// Один флаш = одна транзакция: балансы всех пользователей плюс
// прогресс квестов, всё или ничего.
package batcher

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/db/postgres"
	"fumoworld.ru/fumo-bot/internal/features/quests"
)

// LedgerFlusher применяет батчи к PostgreSQL с повторами при конфликтах.
type LedgerFlusher struct {
	db        *pgxpool.Pool
	questRepo *quests.Repository
	retrier   *postgres.Retrier
}

// NewLedgerFlusher создаёт флашер поверх пула соединений.
func NewLedgerFlusher(db *pgxpool.Pool, questRepo *quests.Repository, retrier *postgres.Retrier) *LedgerFlusher {
	return &LedgerFlusher{db: db, questRepo: questRepo, retrier: retrier}
}

// ApplyBatch применяет все дельты одной транзакцией.
// Порядок пользователей не специфицирован (итерация по карте);
// внутри одного пользователя все его дельты применяются вместе.
func (f *LedgerFlusher) ApplyBatch(ctx context.Context, updates map[int64]Delta) error {
	return f.retrier.Do(ctx, "batcher.flush", func(ctx context.Context) error {
		return f.applyOnce(ctx, updates)
	})
}

func (f *LedgerFlusher) applyOnce(ctx context.Context, updates map[int64]Delta) error {
	tx, err := f.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	questCoins := quests.Find(quests.QuestDailyCoins)
	bucket := common.DayBucket(time.Now())

	for userID, d := range updates {
		// Аккаунт мог ещё не существовать (доход до первой команды)
		_, err = tx.Exec(ctx,
			`INSERT INTO accounts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
			userID,
		)
		if err != nil {
			return fmt.Errorf("ошибка создания аккаунта %d: %w", userID, err)
		}

		if d.Coins != 0 || d.Gems != 0 {
			_, err = tx.Exec(ctx,
				`UPDATE accounts
				 SET coins = GREATEST(0, coins + $2),
				     gems  = GREATEST(0, gems + $3),
				     updated_at = NOW()
				 WHERE user_id = $1`,
				userID, d.Coins, d.Gems,
			)
			if err != nil {
				return fmt.Errorf("ошибка применения дельт %d: %w", userID, err)
			}
		}

		if d.QuestCoins > 0 {
			err = f.questRepo.AddProgressTx(ctx, tx, userID,
				questCoins.ID, bucket, d.QuestCoins, questCoins.Ceiling)
			if err != nil {
				return fmt.Errorf("ошибка прогресса квеста %d: %w", userID, err)
			}
		}
	}

	return tx.Commit(ctx)
}
