// Package account — repository.go выполняет все операции с таблицей accounts.
// Списания проверяют баланс под FOR UPDATE, начисления насыщаются нулём в SQL.
package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет методы для работы с аккаунтами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий аккаунтов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const accountColumns = `
	user_id, coins, gems, luck, total_rolls,
	boost_charge, boost_active, boost_rolls_remaining, rolls_left,
	fragment_uses, has_fantasy_book,
	pity_astral, pity_celestial, pity_divine, pity_eternal, pity_transcendent,
	created_at, updated_at
`

// Ensure создаёт запись аккаунта, если её ещё нет.
// Вызывается перед любым экономическим действием (ленивое создание).
func (r *Repository) Ensure(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO accounts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("ошибка создания аккаунта: %w", err)
	}
	return nil
}

// Get возвращает аккаунт пользователя.
func (r *Repository) Get(ctx context.Context, userID int64) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`

	var a Account
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&a.UserID, &a.Coins, &a.Gems, &a.Luck, &a.TotalRolls,
		&a.BoostCharge, &a.BoostActive, &a.BoostRollsRemaining, &a.RollsLeft,
		&a.FragmentUses, &a.HasFantasyBook,
		&a.PityAstral, &a.PityCelestial, &a.PityDivine, &a.PityEternal, &a.PityTranscendent,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения аккаунта: %w", err)
	}
	return &a, nil
}

// AddCurrency изменяет балансы на дельты (могут быть отрицательными).
// Баланс насыщается нулём: перерасход не уводит счёт в минус.
func (r *Repository) AddCurrency(ctx context.Context, userID int64, coins, gems int64) error {
	query := `
		UPDATE accounts
		SET coins = GREATEST(0, coins + $2),
		    gems  = GREATEST(0, gems + $3),
		    updated_at = NOW()
		WHERE user_id = $1
	`
	_, err := r.db.Exec(ctx, query, userID, coins, gems)
	if err != nil {
		return fmt.Errorf("ошибка изменения баланса: %w", err)
	}
	return nil
}

// SpendCoins списывает монеты с проверкой достаточности.
// Возвращает false, если монет не хватает (без изменения состояния).
func (r *Repository) SpendCoins(ctx context.Context, userID int64, amount int64) (bool, error) {
	return r.spend(ctx, userID, amount, "coins")
}

// SpendGems списывает гемы с проверкой достаточности.
func (r *Repository) SpendGems(ctx context.Context, userID int64, amount int64) (bool, error) {
	return r.spend(ctx, userID, amount, "gems")
}

func (r *Repository) spend(ctx context.Context, userID int64, amount int64, column string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Проверяем баланс перед списанием (с блокировкой строки FOR UPDATE)
	var current int64
	err = tx.QueryRow(ctx,
		`SELECT `+column+` FROM accounts WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&current)
	if err != nil {
		return false, fmt.Errorf("ошибка получения баланса: %w", err)
	}

	if current < amount {
		return false, nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE accounts SET `+column+` = `+column+` - $2, updated_at = NOW() WHERE user_id = $1`,
		userID, amount,
	)
	if err != nil {
		return false, fmt.Errorf("ошибка списания: %w", err)
	}

	return true, tx.Commit(ctx)
}

// SaveRollState записывает всё состояние ролла одним апдейтом:
// пити, счётчики, заряд и флаг буста. Сброс флага буста и обнуление
// его счётчика происходят в одном и том же UPDATE (инвариант).
func (r *Repository) SaveRollState(ctx context.Context, a *Account) error {
	query := `
		UPDATE accounts
		SET luck = GREATEST(luck, $2),
		    total_rolls = $3,
		    boost_charge = $4,
		    boost_active = $5,
		    boost_rolls_remaining = $6,
		    rolls_left = $7,
		    pity_astral = $8,
		    pity_celestial = $9,
		    pity_divine = $10,
		    pity_eternal = $11,
		    pity_transcendent = $12,
		    updated_at = NOW()
		WHERE user_id = $1
	`
	_, err := r.db.Exec(ctx, query,
		a.UserID, a.Luck, a.TotalRolls,
		a.BoostCharge, a.BoostActive, a.BoostRollsRemaining, a.RollsLeft,
		a.PityAstral, a.PityCelestial, a.PityDivine, a.PityEternal, a.PityTranscendent,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения состояния ролла: %w", err)
	}
	return nil
}

// IncreaseLuck повышает удачу до нового значения (удача монотонна).
func (r *Repository) IncreaseLuck(ctx context.Context, userID int64, luck float64) error {
	query := `
		UPDATE accounts
		SET luck = LEAST(1.0, GREATEST(luck, $2)), updated_at = NOW()
		WHERE user_id = $1
	`
	_, err := r.db.Exec(ctx, query, userID, luck)
	if err != nil {
		return fmt.Errorf("ошибка повышения удачи: %w", err)
	}
	return nil
}

// AddFragmentUse увеличивает счётчик фрагментов фермы с потолком maxUses.
// Возвращает false, если потолок уже достигнут.
func (r *Repository) AddFragmentUse(ctx context.Context, userID int64, maxUses int) (bool, error) {
	query := `
		UPDATE accounts
		SET fragment_uses = fragment_uses + 1, updated_at = NOW()
		WHERE user_id = $1 AND fragment_uses < $2
	`
	tag, err := r.db.Exec(ctx, query, userID, maxUses)
	if err != nil {
		return false, fmt.Errorf("ошибка применения фрагмента: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetFantasyBook выставляет флаг Книги Фантазий.
func (r *Repository) SetFantasyBook(ctx context.Context, userID int64) error {
	query := `UPDATE accounts SET has_fantasy_book = TRUE, updated_at = NOW() WHERE user_id = $1`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("ошибка выдачи книги: %w", err)
	}
	return nil
}

// AddRollsLeft добавляет бонусные роллы.
func (r *Repository) AddRollsLeft(ctx context.Context, userID int64, n int) error {
	query := `UPDATE accounts SET rolls_left = rolls_left + $2, updated_at = NOW() WHERE user_id = $1`
	if _, err := r.db.Exec(ctx, query, userID, n); err != nil {
		return fmt.Errorf("ошибка добавления бонусных роллов: %w", err)
	}
	return nil
}

// ActivateBoost включает буст-режим, списывая полный заряд.
// Атомарно: условие на заряд и на неактивность буста прямо в UPDATE.
func (r *Repository) ActivateBoost(ctx context.Context, userID int64, chargeFull, boostRolls int) (bool, error) {
	query := `
		UPDATE accounts
		SET boost_charge = 0,
		    boost_active = TRUE,
		    boost_rolls_remaining = $3,
		    updated_at = NOW()
		WHERE user_id = $1 AND boost_charge >= $2 AND NOT boost_active
	`
	tag, err := r.db.Exec(ctx, query, userID, chargeFull, boostRolls)
	if err != nil {
		return false, fmt.Errorf("ошибка активации буста: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
