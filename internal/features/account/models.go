// Package account управляет аккаунтами игроков: валюты, удача, пити, буст.
// models.go описывает структуру аккаунта.
package account

import (
	"time"

	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Account представляет аккаунт игрока.
// Создаётся лениво при первом экономическом действии, никогда не удаляется.
type Account struct {
	UserID int64 `db:"user_id"` // Telegram user ID

	Coins int64 `db:"coins"` // Монеты (не бывает < 0, списание насыщается нулём)
	Gems  int64 `db:"gems"`  // Гемы (аналогично)

	// Удача в [0,1]. Только растёт — каждое повышающее событие берёт максимум.
	Luck float64 `db:"luck"`

	TotalRolls int64 `db:"total_rolls"` // Всего роллов за всё время

	// Заряд буста 0..1000. При полном заряде можно включить буст-режим.
	BoostCharge int `db:"boost_charge"`
	// Буст-режим: ролл делится на 25. Инвариант: BoostActive ⇒ BoostRollsRemaining > 0;
	// обнуление счётчика сбрасывает флаг в том же апдейте.
	BoostActive         bool `db:"boost_active"`
	BoostRollsRemaining int  `db:"boost_rolls_remaining"`

	// Бюджет бонусных роллов (ролл делится на 2, пока > 0)
	RollsLeft int `db:"rolls_left"`

	// Постоянное расширение фермы: слотов = база + FragmentUses (макс. 30)
	FragmentUses int `db:"fragment_uses"`

	// Книга Фантазий открывает верхние редкости
	HasFantasyBook bool `db:"has_fantasy_book"`

	// Счётчики пити по закрытым тирами. Каждый растёт на 1 за ролл,
	// не давший его тир, и сбрасывается в 0, когда тир выпал.
	PityAstral       int64 `db:"pity_astral"`
	PityCelestial    int64 `db:"pity_celestial"`
	PityDivine       int64 `db:"pity_divine"`
	PityEternal      int64 `db:"pity_eternal"`
	PityTranscendent int64 `db:"pity_transcendent"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanActivateBoost проверяет предусловия включения буст-режима:
// режим ещё не активен и заряд накоплен полностью.
func (a *Account) CanActivateBoost(chargeFull int) error {
	if a.BoostActive {
		return common.ErrBoostAlreadyActive
	}
	if a.BoostCharge < chargeFull {
		return common.ErrBoostChargeLow
	}
	return nil
}

// PityFor возвращает счётчик пити для редкости r (0 для тиров без пити).
func (a *Account) PityFor(r items.Rarity) int64 {
	switch r {
	case items.RarityAstral:
		return a.PityAstral
	case items.RarityCelestial:
		return a.PityCelestial
	case items.RarityDivine:
		return a.PityDivine
	case items.RarityEternal:
		return a.PityEternal
	case items.RarityTranscendent:
		return a.PityTranscendent
	}
	return 0
}

// SetPity записывает счётчик пити редкости r.
func (a *Account) SetPity(r items.Rarity, v int64) {
	switch r {
	case items.RarityAstral:
		a.PityAstral = v
	case items.RarityCelestial:
		a.PityCelestial = v
	case items.RarityDivine:
		a.PityDivine = v
	case items.RarityEternal:
		a.PityEternal = v
	case items.RarityTranscendent:
		a.PityTranscendent = v
	}
}
