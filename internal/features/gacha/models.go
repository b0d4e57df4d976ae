// Package gacha реализует гача-роллы: взвешенный выбор редкости,
// пити-гарантии, буст-режим и косметические варианты.
// models.go — структура результата ролла.
package gacha

import "fumoworld.ru/fumo-bot/internal/features/items"

// RollResult — итог одного ролла.
type RollResult struct {
	RollID string    // UUID ролла (для логов и идемпотентности выдачи)
	Ref    items.Ref // Что выпало (фумо + редкость + вариант)

	Forced    bool // Тир форсирован пити
	Override  bool // Тир подменён Сферой редкости
	Boosted   bool // Ролл прошёл в буст-режиме
	BonusRoll bool // Потрачен бонусный ролл (бесплатный)

	BoostEnded bool // Этим роллом буст-режим закончился

	PaidCoins int64 // Сколько монет стоил ролл (0 для бонусного)
}
