// Package gacha — resolver.go: движок взвешенного ролла.
// Детерминирован в законе вероятности, стохастичен в исходе:
// весь рандом приходит через интерфейс Rng, тесты подставляют свой.
package gacha

import (
	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Rng — источник случайности ролла. *rand.Rand ему удовлетворяет.
type Rng interface {
	Float64() float64
	Intn(n int) int
}

// RollInput — параметры одного ролла.
type RollInput struct {
	LuckMult  float64 // Композитный множитель удачи (≥ малого эпсилона)
	Boosted   bool    // Буст-режим: бросок делится на 25
	BonusRoll bool    // Бонусный ролл: бросок делится на 2 (если не буст)
	HasBook   bool    // Книга Фантазий открывает закрытые тиры
}

// PityState — счётчики пити по тирам на момент ролла.
type PityState map[items.Rarity]int64

// ResolveRarity возвращает ровно один тир за ролл.
//
// Сначала пити: капы проверяются от самого редкого тира; первый
// достигнутый кап форсит свой тир вместо броска. Без Книги пити
// не работает — закрытые тиры всё равно недостижимы.
//
// Иначе бросок: r = uniform(0,100) / LuckMult (удача УМЕНЬШАЕТ бросок,
// редкие тиры сидят на нижних порогах), дополнительно /25 в буст-режиме
// или /2 на бонусном ролле. Выбирается первый незакрытый тир, чей
// накопленный порог превышает r.
func ResolveRarity(rng Rng, in RollInput, pity PityState) (rarity items.Rarity, forced bool) {
	if in.HasBook {
		for _, tier := range PityOrder {
			if pity[tier] >= PityCaps[tier] {
				return tier, true
			}
		}
	}

	r := rng.Float64() * 100

	if in.LuckMult > 0 {
		r /= in.LuckMult
	}
	if in.Boosted {
		r /= boostedDivisor
	} else if in.BonusRoll {
		r /= bonusRollDivisor
	}

	for _, entry := range WeightTable {
		if items.IsGated(entry.Tier) && !in.HasBook {
			continue
		}
		if r < entry.Cumulative {
			return entry.Tier, false
		}
	}

	// r мог превысить последний порог при множителе < 1 — отдаём самый частый тир
	return items.RarityCommon, false
}

// ResolveOverride выбирает равномерно-случайный тир из списка Сферы редкости.
func ResolveOverride(rng Rng) items.Rarity {
	return OverrideTiers[rng.Intn(len(OverrideTiers))]
}

// RollVariant бросает косметический вариант: сначала ультра, потом шайни.
// Варианты взаимоисключающие и не зависят от тира.
func RollVariant(rng Rng, luckMark float64) string {
	if rng.Float64() < ultraBase+luckMark*ultraStep {
		return items.TagUltra
	}
	if rng.Float64() < shinyBase+luckMark*shinyStep {
		return items.TagShiny
	}
	return items.TagNone
}

// ApplyPity обновляет счётчики после ролла: выпавший тир сбрасывается
// в 0, остальные растут на 1. Без Книги счётчики не трогаются —
// закрытые тиры недостижимы, копить к ним пити нечестно.
func ApplyPity(pity PityState, result items.Rarity, hasBook bool) {
	if !hasBook {
		return
	}
	for _, tier := range PityOrder {
		if tier == result {
			pity[tier] = 0
		} else {
			pity[tier]++
		}
	}
}
