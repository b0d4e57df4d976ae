// generator.go — чистая генерация каталогов: без БД, без часов, без
// глобального rand. Источник случайности и время приходят снаружи,
// поэтому генерация полностью проверяема в тестах.
package market

import (
	"time"

	"fumoworld.ru/fumo-bot/internal/common"
	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Rng — нужный генератору срез math/rand.
type Rng interface {
	Float64() float64
	Intn(n int) int
}

const (
	marketMinItems = 4
	marketMaxItems = 10
	shopMinItems   = 3

	// Буст выходных: шанс включения высоких тиров удваивается.
	weekendMult = 2.0

	// Буст «серии промахов»: +5% к шансу за каждый промах высокого тира
	// в пределах одного вызова генерации. Счётчик живёт только внутри
	// вызова и между часами не переносится.
	missBuffStep = 0.05

	// Расходники попадают в магазин заметно чаще фумо тех же редкостей.
	shopProbMult = 4.0

	// Гарантийные подмены: если повышенный тир не появлялся дольше
	// порога, он принудительно вносится в каталог.
	elevatedGuarantee     = 12 * time.Hour
	veryElevatedGuarantee = 24 * time.Hour
)

// GenInput — вход генерации одного каталога.
type GenInput struct {
	UserID  int64
	Now     time.Time
	HasBook bool // Без Книги Фантазий закрытые редкости в каталог не попадают

	// Когда пользователь в последний раз видел повышенный /
	// очень повышенный тир в каталоге этого вида.
	LastElevated     time.Time
	LastVeryElevated time.Time
}

// GenerateMarket собирает каталог рынка фумо.
func GenerateMarket(rng Rng, in GenInput) *Catalog {
	c := &Catalog{
		UserID:      in.UserID,
		Kind:        KindMarket,
		ResetTime:   common.NextHourReset(in.Now),
		GeneratedAt: in.Now,
	}

	weekend := common.IsWeekend(in.Now)
	missStreak := 0

	for _, r := range items.AllRarities {
		if items.IsGated(r) && !in.HasBook {
			continue
		}
		info := items.Table[r]
		for _, name := range items.FumoPool[r] {
			if len(c.Items) >= marketMaxItems {
				break
			}
			p := info.MarketProb
			if items.HighRarities[r] {
				if weekend {
					p *= weekendMult
				}
				p *= 1.0 + missBuffStep*float64(missStreak)
			}
			if rng.Float64() < p {
				c.Items = append(c.Items, marketItem(rng, name, r))
				if items.HighRarities[r] {
					missStreak = 0
				}
			} else if items.HighRarities[r] {
				missStreak++
			}
		}
	}

	// Добиваем до минимума обычными фумо, без дублей.
	fillMarket(rng, c)

	// Гарантийные подмены: слот 0 — повышенный тир (12 часов),
	// слот 1 — очень повышенный (24 часа). Очень повышенный первым,
	// чтобы 12-часовая подмена не затёрла более редкую позицию.
	if in.Now.Sub(in.LastVeryElevated) >= veryElevatedGuarantee {
		injectFumo(rng, c, 1, eligible(items.VeryElevatedRarities, in.HasBook))
	}
	if in.Now.Sub(in.LastElevated) >= elevatedGuarantee {
		injectFumo(rng, c, 0, eligible(items.ElevatedRarities, in.HasBook))
	}
	return c
}

// GenerateShop собирает каталог магазина расходников.
// Правила те же, что у рынка, но пул — расходники, и распроданные
// позиции потом не удаляются, а помечаются.
func GenerateShop(rng Rng, in GenInput) *Catalog {
	c := &Catalog{
		UserID:      in.UserID,
		Kind:        KindShop,
		ResetTime:   common.NextHourReset(in.Now),
		GeneratedAt: in.Now,
	}

	weekend := common.IsWeekend(in.Now)
	missStreak := 0

	for _, cons := range items.ConsumablePool {
		p := items.Table[cons.Rarity].MarketProb * shopProbMult
		if items.HighRarities[cons.Rarity] {
			if weekend {
				p *= weekendMult
			}
			p *= 1.0 + missBuffStep*float64(missStreak)
		}
		if rng.Float64() < p {
			c.Items = append(c.Items, shopItem(rng, cons))
			if items.HighRarities[cons.Rarity] {
				missStreak = 0
			}
		} else if items.HighRarities[cons.Rarity] {
			missStreak++
		}
	}

	fillShop(rng, c)

	if in.Now.Sub(in.LastVeryElevated) >= veryElevatedGuarantee {
		injectConsumable(rng, c, 1, items.VeryElevatedRarities)
	}
	if in.Now.Sub(in.LastElevated) >= elevatedGuarantee {
		injectConsumable(rng, c, 0, items.ElevatedRarities)
	}
	return c
}

// HasElevated сообщает, есть ли в каталоге позиция повышенного тира.
func HasElevated(c *Catalog) bool {
	return hasAnyOf(c, items.ElevatedRarities)
}

// HasVeryElevated сообщает, есть ли позиция очень повышенного тира.
func HasVeryElevated(c *Catalog) bool {
	return hasAnyOf(c, items.VeryElevatedRarities)
}

func hasAnyOf(c *Catalog, rs []items.Rarity) bool {
	for _, it := range c.Items {
		for _, r := range rs {
			if it.Rarity == r {
				return true
			}
		}
	}
	return false
}

func marketItem(rng Rng, name string, r items.Rarity) *CatalogItem {
	info := items.Table[r]
	ref := items.Ref{Base: name, Rarity: r}
	return &CatalogItem{
		ItemKey: ref.String(),
		Display: ref.Display(),
		Rarity:  r,
		Stock:   rollStock(rng, info),
		Price:   perturbPrice(rng, info.BasePrice),
	}
}

func shopItem(rng Rng, cons items.Consumable) *CatalogItem {
	info := items.Table[cons.Rarity]
	it := &CatalogItem{
		ItemKey: cons.Name,
		Display: cons.Display,
		Rarity:  cons.Rarity,
		Stock:   rollStock(rng, info),
	}
	if cons.GemPrice > 0 {
		// Гемовые цены не скачут: гем — твёрдая валюта.
		it.GemPrice = cons.GemPrice
	} else {
		it.Price = perturbPrice(rng, cons.Price)
	}
	return it
}

// rollStock — равномерный сток из диапазона редкости.
func rollStock(rng Rng, info items.Info) int {
	return info.StockMin + rng.Intn(info.StockMax-info.StockMin+1)
}

// perturbPrice возмущает базовую цену: 10% — распродажа (−40%),
// 10% — ажиотаж (+50%), остальное — равномерно ±20%.
func perturbPrice(rng Rng, base int64) int64 {
	var price int64
	switch roll := rng.Float64(); {
	case roll < 0.10:
		price = base * 60 / 100
	case roll < 0.20:
		price = base * 150 / 100
	default:
		price = int64(float64(base) * (0.8 + 0.4*rng.Float64()))
	}
	if price < 1 {
		price = 1
	}
	return price
}

// eligible отфильтровывает закрытые редкости для пользователей без книги.
func eligible(rs []items.Rarity, hasBook bool) []items.Rarity {
	if hasBook {
		return rs
	}
	out := make([]items.Rarity, 0, len(rs))
	for _, r := range rs {
		if !items.IsGated(r) {
			out = append(out, r)
		}
	}
	return out
}

// fillMarket добивает каталог до минимума случайными обычными фумо.
func fillMarket(rng Rng, c *Catalog) {
	pool := items.FumoPool[items.RarityCommon]
	for len(c.Items) < marketMinItems {
		name := pool[rng.Intn(len(pool))]
		it := marketItem(rng, name, items.RarityCommon)
		if c.Find(it.ItemKey) != nil {
			// Пул обычных больше минимума каталога, дубль пропускаем.
			continue
		}
		c.Items = append(c.Items, it)
	}
}

// fillShop добивает магазин до минимума случайными расходниками.
func fillShop(rng Rng, c *Catalog) {
	if len(items.ConsumablePool) < shopMinItems {
		return
	}
	for len(c.Items) < shopMinItems {
		cons := items.ConsumablePool[rng.Intn(len(items.ConsumablePool))]
		if c.Find(cons.Name) != nil {
			continue
		}
		c.Items = append(c.Items, shopItem(rng, cons))
	}
}

// injectFumo подменяет позицию slot случайным фумо одной из редкостей rs.
func injectFumo(rng Rng, c *Catalog, slot int, rs []items.Rarity) {
	if len(rs) == 0 {
		return
	}
	r := rs[rng.Intn(len(rs))]
	pool := items.FumoPool[r]
	if len(pool) == 0 {
		return
	}
	putSlot(c, slot, marketItem(rng, pool[rng.Intn(len(pool))], r))
}

// injectConsumable — то же для магазина: расходник редкости из rs.
func injectConsumable(rng Rng, c *Catalog, slot int, rs []items.Rarity) {
	pool := make([]items.Consumable, 0, len(items.ConsumablePool))
	for _, cons := range items.ConsumablePool {
		for _, r := range rs {
			if cons.Rarity == r {
				pool = append(pool, cons)
				break
			}
		}
	}
	if len(pool) == 0 {
		return
	}
	putSlot(c, slot, shopItem(rng, pool[rng.Intn(len(pool))]))
}

// putSlot ставит позицию в слот, убирая дубль по ключу, если он уже
// есть в другом месте каталога.
func putSlot(c *Catalog, slot int, it *CatalogItem) {
	for i, old := range c.Items {
		if i != slot && old.ItemKey == it.ItemKey {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}
	if slot >= len(c.Items) {
		c.Items = append(c.Items, it)
		return
	}
	c.Items[slot] = it
}
