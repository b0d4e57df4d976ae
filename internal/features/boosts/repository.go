// Package boosts — repository.go выполняет операции с таблицей active_boosts.
package boosts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет методы для работы с бустами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий бустов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const boostColumns = `id, user_id, type, source, multiplier, expires_at, uses, extra, created_at, updated_at`

// ActiveByTypes возвращает все неистёкшие бусты пользователя указанных типов.
func (r *Repository) ActiveByTypes(ctx context.Context, userID int64, types []string) ([]*Boost, error) {
	query := `
		SELECT ` + boostColumns + `
		FROM active_boosts
		WHERE user_id = $1
		  AND type = ANY($2)
		  AND (expires_at IS NULL OR expires_at > NOW())
	`
	rows, err := r.db.Query(ctx, query, userID, types)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения бустов: %w", err)
	}
	defer rows.Close()

	return scanBoosts(rows)
}

// Upsert вставляет буст или обновляет существующий (ключ user_id+type+source).
func (r *Repository) Upsert(ctx context.Context, b *Boost) error {
	query := `
		INSERT INTO active_boosts (user_id, type, source, multiplier, expires_at, uses, extra)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, type, source)
		DO UPDATE SET multiplier = $4, expires_at = $5, uses = $6, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query,
		b.UserID, b.Type, b.Source, b.Multiplier, b.ExpiresAt, b.Uses, b.Extra,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения буста: %w", err)
	}
	return nil
}

// UpdateExtra записывает состояние источника (журнал кубика и т.п.).
func (r *Repository) UpdateExtra(ctx context.Context, id int64, extra []byte) error {
	query := `UPDATE active_boosts SET extra = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, extra); err != nil {
		return fmt.Errorf("ошибка записи extra: %w", err)
	}
	return nil
}

// Active возвращает один неистёкший буст типа type (любой источник).
// nil без ошибки, если буста нет.
func (r *Repository) Active(ctx context.Context, userID int64, boostType string) (*Boost, error) {
	query := `
		SELECT ` + boostColumns + `
		FROM active_boosts
		WHERE user_id = $1 AND type = $2
		  AND (expires_at IS NULL OR expires_at > NOW())
		LIMIT 1
	`
	row := r.db.QueryRow(ctx, query, userID, boostType)

	b, err := scanBoost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения буста: %w", err)
	}
	return b, nil
}

// ConsumeUse списывает одно применение расходуемого буста.
// Буст, дошедший до нуля применений, удаляется в той же транзакции.
func (r *Repository) ConsumeUse(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var uses int
	err = tx.QueryRow(ctx,
		`SELECT uses FROM active_boosts WHERE id = $1 FOR UPDATE`, id,
	).Scan(&uses)
	if err != nil {
		return fmt.Errorf("ошибка чтения буста: %w", err)
	}

	if uses <= 1 {
		_, err = tx.Exec(ctx, `DELETE FROM active_boosts WHERE id = $1`, id)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE active_boosts SET uses = uses - 1, updated_at = NOW() WHERE id = $1`, id,
		)
	}
	if err != nil {
		return fmt.Errorf("ошибка списания применения: %w", err)
	}

	return tx.Commit(ctx)
}

// DeleteExpired удаляет все истёкшие бусты. Возвращает число удалённых строк.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM active_boosts WHERE expires_at IS NOT NULL AND expires_at <= $1`, now,
	)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки бустов: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanBoosts(rows pgx.Rows) ([]*Boost, error) {
	var out []*Boost
	for rows.Next() {
		b, err := scanBoost(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования буста: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}

func scanBoost(row pgx.Row) (*Boost, error) {
	var b Boost
	err := row.Scan(
		&b.ID, &b.UserID, &b.Type, &b.Source, &b.Multiplier,
		&b.ExpiresAt, &b.Uses, &b.Extra, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
