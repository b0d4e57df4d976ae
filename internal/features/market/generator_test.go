package market

import (
	"testing"
	"time"

	"fumoworld.ru/fumo-bot/internal/features/items"
)

// seqRng — детерминированный источник: фиксированный Float64,
// Intn перебирает значения по кругу.
type seqRng struct {
	f float64
	n int
}

func (r *seqRng) Float64() float64 { return r.f }

func (r *seqRng) Intn(n int) int {
	v := r.n % n
	r.n++
	return v
}

// Вторник, никаких гарантий не просрочено.
func quietInput(now time.Time) GenInput {
	return GenInput{
		UserID:           42,
		Now:              now,
		LastElevated:     now,
		LastVeryElevated: now,
	}
}

func TestGenerateMarketTopsUpToMinimum(t *testing.T) {
	now := time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC)
	// Все броски включения мимо — каталог добивается обычными фумо.
	c := GenerateMarket(&seqRng{f: 0.99}, quietInput(now))

	if len(c.Items) < marketMinItems {
		t.Fatalf("catalog too small: %d", len(c.Items))
	}
	for _, it := range c.Items {
		if it.Rarity != items.RarityCommon {
			t.Fatalf("top-up must use commons, got %s", it.Rarity)
		}
		if it.Stock < 1 {
			t.Fatalf("stock must be positive, got %d", it.Stock)
		}
	}
	wantReset := time.Date(2026, 3, 3, 11, 0, 0, 0, time.UTC)
	if !c.ResetTime.Equal(wantReset) {
		t.Fatalf("reset=%v want=%v", c.ResetTime, wantReset)
	}
}

func TestGenerateMarketNoDuplicateKeys(t *testing.T) {
	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	// Все броски попадают — каталог забивается до максимума.
	c := GenerateMarket(&seqRng{f: 0.0}, quietInput(now))

	if len(c.Items) > marketMaxItems {
		t.Fatalf("catalog overflows max: %d", len(c.Items))
	}
	seen := make(map[string]bool)
	for _, it := range c.Items {
		if seen[it.ItemKey] {
			t.Fatalf("duplicate item %q", it.ItemKey)
		}
		seen[it.ItemKey] = true
	}
}

func TestGenerateMarketSkipsGatedWithoutBook(t *testing.T) {
	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	c := GenerateMarket(&seqRng{f: 0.0}, quietInput(now))
	for _, it := range c.Items {
		if items.IsGated(it.Rarity) {
			t.Fatalf("gated rarity %s leaked without the book", it.Rarity)
		}
	}
}

func TestGenerateMarketForcedInjection(t *testing.T) {
	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	in := quietInput(now)
	in.LastElevated = now.Add(-13 * time.Hour)
	in.LastVeryElevated = now.Add(-25 * time.Hour)

	c := GenerateMarket(&seqRng{f: 0.99}, in)

	if !HasElevated(c) {
		t.Fatalf("12h guarantee must inject an elevated tier")
	}
	if !HasVeryElevated(c) {
		t.Fatalf("24h guarantee must inject a very elevated tier")
	}
	// Слот 0 — повышенный тир
	elevated := map[items.Rarity]bool{}
	for _, r := range items.ElevatedRarities {
		elevated[r] = true
	}
	if !elevated[c.Items[0].Rarity] {
		t.Fatalf("slot 0 rarity %s is not elevated", c.Items[0].Rarity)
	}
}

func TestGenerateMarketNoInjectionWhenFresh(t *testing.T) {
	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	in := quietInput(now)
	in.LastElevated = now.Add(-1 * time.Hour)
	in.LastVeryElevated = now.Add(-1 * time.Hour)

	c := GenerateMarket(&seqRng{f: 0.99}, in)
	if HasElevated(c) || HasVeryElevated(c) {
		t.Fatalf("guarantees must not fire when tiers were seen recently")
	}
}

func TestGenerateShopMinimumAndPrices(t *testing.T) {
	now := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	c := GenerateShop(&seqRng{f: 0.99}, quietInput(now))

	if len(c.Items) < shopMinItems {
		t.Fatalf("shop too small: %d", len(c.Items))
	}
	for _, it := range c.Items {
		cons := items.FindConsumable(it.ItemKey)
		if cons == nil {
			t.Fatalf("unknown consumable %q", it.ItemKey)
		}
		if cons.GemPrice > 0 {
			if it.GemPrice != cons.GemPrice || it.Price != 0 {
				t.Fatalf("gem item %q price wrong: %+v", it.ItemKey, it)
			}
		} else if it.Price < 1 {
			t.Fatalf("coin item %q has no price", it.ItemKey)
		}
	}
}

func TestPerturbPriceWindows(t *testing.T) {
	base := int64(1000)

	// Распродажа: первый бросок < 0.10 → −40%.
	if got := perturbPrice(&seqRng{f: 0.05}, base); got != 600 {
		t.Fatalf("sale price=%d want=600", got)
	}
	// Ажиотаж: бросок в [0.10, 0.20) → +50%.
	if got := perturbPrice(&seqRng{f: 0.15}, base); got != 1500 {
		t.Fatalf("surge price=%d want=1500", got)
	}
	// Обычное возмущение: ±20% от базы.
	got := perturbPrice(&seqRng{f: 0.5}, base)
	if got < 800 || got > 1200 {
		t.Fatalf("normal price=%d outside ±20%% band", got)
	}
}

func TestRollStockWithinRange(t *testing.T) {
	info := items.Table[items.RarityCommon]
	for i := 0; i < 20; i++ {
		got := rollStock(&seqRng{n: i}, info)
		if got < info.StockMin || got > info.StockMax {
			t.Fatalf("stock=%d outside [%d,%d]", got, info.StockMin, info.StockMax)
		}
	}
}

func TestCatalogExpired(t *testing.T) {
	now := time.Date(2026, 3, 3, 10, 59, 0, 0, time.UTC)
	c := GenerateMarket(&seqRng{f: 0.99}, quietInput(now))

	if c.Expired(now) {
		t.Fatalf("fresh catalog must not be expired")
	}
	if !c.Expired(c.ResetTime.Add(time.Second)) {
		t.Fatalf("catalog must expire past reset time")
	}
}
