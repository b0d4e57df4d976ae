// Package gacha — tables.go: таблицы весов и пити.
//
// Пороги таблицы — накопленные суммы на вероятностном поле ширины 100.
// Значения порогов ЛИТЕРАЛЬНЫЕ: честность роллов опирается на точные
// границы тиров, менять их нельзя без пересчёта всей экономики.
package gacha

import "fumoworld.ru/fumo-bot/internal/features/items"

// WeightEntry — один тир таблицы: редкость и её накопленный порог.
type WeightEntry struct {
	Tier       items.Rarity
	Cumulative float64 // Верхняя граница тира на поле [0,100)
}

// WeightTable — от самой редкой к самой частой. Выбирается первый тир,
// чей порог превышает скорректированный бросок. Закрытые тиры
// пропускаются без Книги Фантазий.
//
// Из-за накопления с плавающей точкой суммы не «круглые» — это норма.
var WeightTable = []WeightEntry{
	{items.RarityTranscendent, 0.0002},
	{items.RarityEternal, 0.001},
	{items.RarityDivine, 0.005},
	{items.RarityCelestial, 0.02},
	{items.RarityAstral, 0.07},
	{items.RarityExclusive, 0.27},
	{items.RarityOmega, 0.77},
	{items.RarityMythic, 2.27},
	{items.RarityLegendary, 6.27},
	{items.RarityEpic, 14.27},
	{items.RarityRare, 29.27},
	{items.RarityUncommon, 54.27},
	{items.RarityCommon, 100.0},
}

// PityOrder и PityCaps: пити проверяется от самого редкого тира к менее
// редким; первый достигнутый кап форсит свой тир.
var PityOrder = []items.Rarity{
	items.RarityTranscendent,
	items.RarityEternal,
	items.RarityDivine,
	items.RarityCelestial,
	items.RarityAstral,
}

// PityCaps — капы счётчиков пити.
var PityCaps = map[items.Rarity]int64{
	items.RarityAstral:       30000,
	items.RarityCelestial:    90000,
	items.RarityDivine:       200000,
	items.RarityEternal:      500000,
	items.RarityTranscendent: 1500000,
}

// OverrideTiers — фиксированный список тиров Сферы редкости:
// активный rarityOverride-буст подменяет ролл равномерным выбором отсюда.
var OverrideTiers = []items.Rarity{
	items.RarityLegendary,
	items.RarityMythic,
	items.RarityOmega,
	items.RarityExclusive,
}

// Делители броска.
const (
	boostedDivisor   = 25.0 // Буст-режим
	bonusRollDivisor = 2.0  // Бонусные роллы
)

// Вероятности косметических вариантов: base + luck*step.
// Ультра проверяется первым, варианты взаимоисключающие.
const (
	ultraBase = 0.001
	ultraStep = 0.004
	shinyBase = 0.01
	shinyStep = 0.04
)

// luckPerRareRoll — на сколько растёт удача за ролл тира MYTHIC и выше.
const luckPerRareRoll = 0.001
