// Package farming — repository.go выполняет операции с таблицей farming_slots.
// Таймеры живут в памяти, слоты — в базе: после рестарта ферма
// восстанавливается из этих строк (ResumeAll).
package farming

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет методы для работы со слотами фермы.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий фермы.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert создаёт слот или обновляет количество существующего.
func (r *Repository) Upsert(ctx context.Context, s *Slot) error {
	query := `
		INSERT INTO farming_slots (user_id, item_key, coins_per_min, gems_per_min, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, item_key)
		DO UPDATE SET quantity = $5, coins_per_min = $3, gems_per_min = $4
	`
	_, err := r.db.Exec(ctx, query, s.UserID, s.ItemKey, s.CoinsPerMin, s.GemsPerMin, s.Quantity)
	if err != nil {
		return fmt.Errorf("ошибка создания слота фермы: %w", err)
	}
	return nil
}

// Get возвращает слот (nil без ошибки, если слота нет).
func (r *Repository) Get(ctx context.Context, userID int64, itemKey string) (*Slot, error) {
	var s Slot
	err := r.db.QueryRow(ctx,
		`SELECT user_id, item_key, coins_per_min, gems_per_min, quantity, created_at
		 FROM farming_slots WHERE user_id = $1 AND item_key = $2`,
		userID, itemKey,
	).Scan(&s.UserID, &s.ItemKey, &s.CoinsPerMin, &s.GemsPerMin, &s.Quantity, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения слота: %w", err)
	}
	return &s, nil
}

// Delete удаляет слот. Возвращает false, если слота не было.
func (r *Repository) Delete(ctx context.Context, userID int64, itemKey string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM farming_slots WHERE user_id = $1 AND item_key = $2`,
		userID, itemKey,
	)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления слота: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetQuantity обновляет количество в слоте.
func (r *Repository) SetQuantity(ctx context.Context, userID int64, itemKey string, qty int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE farming_slots SET quantity = $3 WHERE user_id = $1 AND item_key = $2`,
		userID, itemKey, qty,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления слота: %w", err)
	}
	return nil
}

// ListForUser возвращает все слоты пользователя.
func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]*Slot, error) {
	return r.list(ctx,
		`SELECT user_id, item_key, coins_per_min, gems_per_min, quantity, created_at
		 FROM farming_slots WHERE user_id = $1 ORDER BY item_key`, userID)
}

// ListAll возвращает все слоты всех пользователей (для ResumeAll на старте).
func (r *Repository) ListAll(ctx context.Context) ([]*Slot, error) {
	return r.list(ctx,
		`SELECT user_id, item_key, coins_per_min, gems_per_min, quantity, created_at
		 FROM farming_slots`)
}

// CountForUser возвращает число занятых слотов пользователя.
func (r *Repository) CountForUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM farming_slots WHERE user_id = $1`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта слотов: %w", err)
	}
	return n, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Slot, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения слотов: %w", err)
	}
	defer rows.Close()

	var out []*Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.UserID, &s.ItemKey, &s.CoinsPerMin, &s.GemsPerMin, &s.Quantity, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования слота: %w", err)
		}
		out = append(out, &s)
	}
	return out, nil
}
