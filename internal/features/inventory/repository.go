// Package inventory — repository.go выполняет операции с таблицей inventory.
// Уменьшение количества и удаление нулевых строк — одна транзакция.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет методы для работы с инвентарём.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий инвентаря.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Add добавляет qty единиц предмета (upsert).
func (r *Repository) Add(ctx context.Context, userID int64, itemKey string, qty int64) error {
	query := `
		INSERT INTO inventory (user_id, item_key, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, item_key)
		DO UPDATE SET quantity = inventory.quantity + $3, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, userID, itemKey, qty)
	if err != nil {
		return fmt.Errorf("ошибка добавления в инвентарь: %w", err)
	}
	return nil
}

// Remove списывает qty единиц предмета.
// Возвращает false, если предмета нет или не хватает количества.
// Строка, дошедшая до нуля, удаляется в той же транзакции.
func (r *Repository) Remove(ctx context.Context, userID int64, itemKey string, qty int64) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int64
	err = tx.QueryRow(ctx,
		`SELECT quantity FROM inventory WHERE user_id = $1 AND item_key = $2 FOR UPDATE`,
		userID, itemKey,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ошибка чтения инвентаря: %w", err)
	}

	if current < qty {
		return false, nil
	}

	if current == qty {
		_, err = tx.Exec(ctx,
			`DELETE FROM inventory WHERE user_id = $1 AND item_key = $2`,
			userID, itemKey,
		)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE inventory SET quantity = quantity - $3, updated_at = NOW()
			 WHERE user_id = $1 AND item_key = $2`,
			userID, itemKey, qty,
		)
	}
	if err != nil {
		return false, fmt.Errorf("ошибка списания из инвентаря: %w", err)
	}

	return true, tx.Commit(ctx)
}

// Quantity возвращает количество предмета (0, если строки нет).
func (r *Repository) Quantity(ctx context.Context, userID int64, itemKey string) (int64, error) {
	var qty int64
	err := r.db.QueryRow(ctx,
		`SELECT quantity FROM inventory WHERE user_id = $1 AND item_key = $2`,
		userID, itemKey,
	).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения количества: %w", err)
	}
	return qty, nil
}

// List возвращает весь инвентарь пользователя, отсортированный по ключу.
func (r *Repository) List(ctx context.Context, userID int64) ([]*Entry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, item_key, quantity, created_at, updated_at
		 FROM inventory WHERE user_id = $1 ORDER BY item_key`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения инвентаря: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.UserID, &e.ItemKey, &e.Quantity, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования инвентаря: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}
