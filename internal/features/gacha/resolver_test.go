package gacha

import (
	"testing"

	"fumoworld.ru/fumo-bot/internal/features/items"
)

// stubRng выдаёт заранее заданные значения.
type stubRng struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *stubRng) Float64() float64 {
	if r.fi >= len(r.floats) {
		return 0.5
	}
	v := r.floats[r.fi]
	r.fi++
	return v
}

func (r *stubRng) Intn(n int) int {
	if r.ii >= len(r.ints) {
		return 0
	}
	v := r.ints[r.ii] % n
	r.ii++
	return v
}

func TestResolveRarityThresholds(t *testing.T) {
	// Бросок = Float64()*100, без модификаторов. Проверяем границы тиров.
	tests := []struct {
		roll float64
		want items.Rarity
	}{
		{0.000001, items.RarityTranscendent},
		{0.0000025, items.RarityEternal},   // 0.00025 < 0.001
		{0.00003, items.RarityDivine},      // 0.003
		{0.0001, items.RarityCelestial},    // 0.01
		{0.0005, items.RarityAstral},       // 0.05
		{0.002, items.RarityExclusive},     // 0.2
		{0.005, items.RarityOmega},         // 0.5
		{0.02, items.RarityMythic},         // 2
		{0.05, items.RarityLegendary},      // 5
		{0.10, items.RarityEpic},           // 10
		{0.20, items.RarityRare},           // 20
		{0.40, items.RarityUncommon},       // 40
		{0.90, items.RarityCommon},         // 90
	}
	for _, tc := range tests {
		rng := &stubRng{floats: []float64{tc.roll}}
		got, forced := ResolveRarity(rng, RollInput{LuckMult: 1.0, HasBook: true}, PityState{})
		if forced {
			t.Fatalf("roll=%v unexpected pity force", tc.roll)
		}
		if got != tc.want {
			t.Fatalf("roll=%v got=%s want=%s", tc.roll, got, tc.want)
		}
	}
}

func TestResolveRarityGatedSkippedWithoutBook(t *testing.T) {
	// Бросок попадает в диапазон TRANSCENDENT, но без Книги закрытые
	// тиры пропускаются: достаётся первый открытый (EXCLUSIVE).
	rng := &stubRng{floats: []float64{0.000001}}
	got, _ := ResolveRarity(rng, RollInput{LuckMult: 1.0}, PityState{})
	if got != items.RarityExclusive {
		t.Fatalf("got=%s want=%s", got, items.RarityExclusive)
	}
}

func TestResolveRarityLuckDividesRoll(t *testing.T) {
	// Бросок 40 при удаче ×2 превращается в 20 — тир RARE вместо UNCOMMON.
	rng := &stubRng{floats: []float64{0.40}}
	got, _ := ResolveRarity(rng, RollInput{LuckMult: 2.0, HasBook: true}, PityState{})
	if got != items.RarityRare {
		t.Fatalf("got=%s want=%s", got, items.RarityRare)
	}
}

func TestResolveRarityBoostDivisorBeatsBonus(t *testing.T) {
	// В буст-режиме делитель 25 применяется вместо бонусного /2.
	// Бросок 50 → 50/25=2 → ниже порога MYTHIC (2.27).
	rng := &stubRng{floats: []float64{0.50}}
	got, _ := ResolveRarity(rng, RollInput{LuckMult: 1.0, Boosted: true, BonusRoll: true, HasBook: true}, PityState{})
	if got != items.RarityMythic {
		t.Fatalf("boosted: got=%s want=%s", got, items.RarityMythic)
	}

	// Тот же бросок только с бонусным роллом: 50/2=25 → RARE.
	rng = &stubRng{floats: []float64{0.50}}
	got, _ = ResolveRarity(rng, RollInput{LuckMult: 1.0, BonusRoll: true, HasBook: true}, PityState{})
	if got != items.RarityRare {
		t.Fatalf("bonus: got=%s want=%s", got, items.RarityRare)
	}
}

func TestResolveRarityPityForces(t *testing.T) {
	pity := PityState{items.RarityAstral: PityCaps[items.RarityAstral]}
	rng := &stubRng{floats: []float64{0.99}}
	got, forced := ResolveRarity(rng, RollInput{LuckMult: 1.0, HasBook: true}, pity)
	if !forced || got != items.RarityAstral {
		t.Fatalf("got=%s forced=%v, want forced ASTRAL", got, forced)
	}
}

func TestResolveRarityPityPrefersRarerTier(t *testing.T) {
	// Два капа достигнуты: форсится более редкий (проверка идёт от
	// самого редкого тира).
	pity := PityState{
		items.RarityAstral: PityCaps[items.RarityAstral],
		items.RarityDivine: PityCaps[items.RarityDivine],
	}
	got, forced := ResolveRarity(&stubRng{}, RollInput{LuckMult: 1.0, HasBook: true}, pity)
	if !forced || got != items.RarityDivine {
		t.Fatalf("got=%s forced=%v, want forced DIVINE", got, forced)
	}
}

func TestResolveRarityPityIgnoredWithoutBook(t *testing.T) {
	pity := PityState{items.RarityAstral: PityCaps[items.RarityAstral] * 2}
	rng := &stubRng{floats: []float64{0.90}}
	got, forced := ResolveRarity(rng, RollInput{LuckMult: 1.0}, pity)
	if forced {
		t.Fatalf("pity must not force without the book")
	}
	if got != items.RarityCommon {
		t.Fatalf("got=%s want=%s", got, items.RarityCommon)
	}
}

func TestApplyPity(t *testing.T) {
	pity := PityState{
		items.RarityAstral:    10,
		items.RarityCelestial: 5,
	}
	ApplyPity(pity, items.RarityAstral, true)

	if pity[items.RarityAstral] != 0 {
		t.Fatalf("hit tier must reset, got %d", pity[items.RarityAstral])
	}
	if pity[items.RarityCelestial] != 6 {
		t.Fatalf("other tier must grow, got %d", pity[items.RarityCelestial])
	}
	if pity[items.RarityTranscendent] != 1 {
		t.Fatalf("untouched tier must start counting, got %d", pity[items.RarityTranscendent])
	}
}

func TestApplyPityNoopWithoutBook(t *testing.T) {
	pity := PityState{items.RarityAstral: 10}
	ApplyPity(pity, items.RarityCommon, false)
	if pity[items.RarityAstral] != 10 {
		t.Fatalf("pity must stay untouched without the book, got %d", pity[items.RarityAstral])
	}
}

func TestResolveOverrideUniform(t *testing.T) {
	for i, want := range OverrideTiers {
		rng := &stubRng{ints: []int{i}}
		if got := ResolveOverride(rng); got != want {
			t.Fatalf("index %d: got=%s want=%s", i, got, want)
		}
	}
}

func TestRollVariant(t *testing.T) {
	// Первый бросок ниже ультра-порога.
	rng := &stubRng{floats: []float64{0.0005}}
	if got := RollVariant(rng, 0); got != items.TagUltra {
		t.Fatalf("got=%q want ultra", got)
	}

	// Ультра мимо, шайни попал.
	rng = &stubRng{floats: []float64{0.5, 0.005}}
	if got := RollVariant(rng, 0); got != items.TagShiny {
		t.Fatalf("got=%q want shiny", got)
	}

	// Оба мимо.
	rng = &stubRng{floats: []float64{0.5, 0.5}}
	if got := RollVariant(rng, 0); got != items.TagNone {
		t.Fatalf("got=%q want none", got)
	}

	// Удача расширяет шансы: luck=1 даёт ультра-порог 0.005.
	rng = &stubRng{floats: []float64{0.003}}
	if got := RollVariant(rng, 1.0); got != items.TagUltra {
		t.Fatalf("luck: got=%q want ultra", got)
	}
}
