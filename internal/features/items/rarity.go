// Package items описывает предметы бота: фумо, расходники и их редкости.
// rarity.go — лестница редкостей и её экономические параметры.
package items

// Rarity — класс редкости предмета.
// Хранится в БД как строка, регистр значим (исторический формат ключей).
type Rarity string

// Редкости от самой редкой к самой частой.
// Пять верхних доступны только владельцам Книги Фантазий.
const (
	RarityTranscendent Rarity = "TRANSCENDENT"
	RarityEternal      Rarity = "ETERNAL"
	RarityDivine       Rarity = "DIVINE"
	RarityCelestial    Rarity = "CELESTIAL"
	RarityAstral       Rarity = "ASTRAL"
	RarityExclusive    Rarity = "EXCLUSIVE"
	RarityOmega        Rarity = "OMEGA"
	RarityMythic       Rarity = "MYTHIC"
	RarityLegendary    Rarity = "LEGENDARY"
	RarityEpic         Rarity = "EPIC"
	RarityRare         Rarity = "RARE"
	RarityUncommon     Rarity = "UNCOMMON"
	RarityCommon       Rarity = "Common"
)

// AllRarities — все редкости, от самой редкой к самой частой.
// Порядок важен: пити проверяется в этом порядке, каталоги считают
// «старшинство» редкости по индексу в этом срезе.
var AllRarities = []Rarity{
	RarityTranscendent,
	RarityEternal,
	RarityDivine,
	RarityCelestial,
	RarityAstral,
	RarityExclusive,
	RarityOmega,
	RarityMythic,
	RarityLegendary,
	RarityEpic,
	RarityRare,
	RarityUncommon,
	RarityCommon,
}

// GatedRarities — редкости, закрытые за Книгой Фантазий.
var GatedRarities = []Rarity{
	RarityTranscendent,
	RarityEternal,
	RarityDivine,
	RarityCelestial,
	RarityAstral,
}

// Info — экономические параметры одной редкости.
type Info struct {
	Gated       bool    // Доступна только с Книгой Фантазий
	BasePrice   int64   // Базовая цена в каталогах (монеты)
	CoinsPerMin int64   // Доход фермы: монет в минуту за единицу
	GemsPerMin  int64   // Доход фермы: гемов в минуту за единицу
	MarketProb  float64 // Вероятность включения в каталог рынка [0,1]
	StockMin    int     // Минимальный сток в каталоге
	StockMax    int     // Максимальный сток в каталоге
}

// Table — параметры всех редкостей.
// MarketProb падает с редкостью; верхние тиры почти никогда не попадают
// в каталог сами — их вносит гарантийная подмена (12/24 часа).
var Table = map[Rarity]Info{
	RarityCommon:       {BasePrice: 150, CoinsPerMin: 2, MarketProb: 0.85, StockMin: 3, StockMax: 12},
	RarityUncommon:     {BasePrice: 400, CoinsPerMin: 4, MarketProb: 0.65, StockMin: 2, StockMax: 9},
	RarityRare:         {BasePrice: 1200, CoinsPerMin: 9, MarketProb: 0.45, StockMin: 2, StockMax: 7},
	RarityEpic:         {BasePrice: 3500, CoinsPerMin: 20, MarketProb: 0.28, StockMin: 1, StockMax: 5},
	RarityLegendary:    {BasePrice: 10000, CoinsPerMin: 45, MarketProb: 0.16, StockMin: 1, StockMax: 4},
	RarityMythic:       {BasePrice: 30000, CoinsPerMin: 100, MarketProb: 0.08, StockMin: 1, StockMax: 3},
	RarityOmega:        {BasePrice: 90000, CoinsPerMin: 220, MarketProb: 0.04, StockMin: 1, StockMax: 2},
	RarityExclusive:    {BasePrice: 250000, CoinsPerMin: 500, GemsPerMin: 1, MarketProb: 0.02, StockMin: 1, StockMax: 2},
	RarityAstral:       {Gated: true, BasePrice: 800000, CoinsPerMin: 1200, GemsPerMin: 2, MarketProb: 0.008, StockMin: 1, StockMax: 1},
	RarityCelestial:    {Gated: true, BasePrice: 2500000, CoinsPerMin: 2800, GemsPerMin: 5, MarketProb: 0.004, StockMin: 1, StockMax: 1},
	RarityDivine:       {Gated: true, BasePrice: 8000000, CoinsPerMin: 6500, GemsPerMin: 12, MarketProb: 0.002, StockMin: 1, StockMax: 1},
	RarityEternal:      {Gated: true, BasePrice: 25000000, CoinsPerMin: 15000, GemsPerMin: 30, MarketProb: 0.001, StockMin: 1, StockMax: 1},
	RarityTranscendent: {Gated: true, BasePrice: 100000000, CoinsPerMin: 40000, GemsPerMin: 80, MarketProb: 0.0005, StockMin: 1, StockMax: 1},
}

// ElevatedRarities — «повышенные» тиры для 12-часовой гарантии каталога.
var ElevatedRarities = []Rarity{
	RarityMythic, RarityOmega, RarityExclusive,
}

// VeryElevatedRarities — «очень повышенные» тиры для 24-часовой гарантии.
var VeryElevatedRarities = []Rarity{
	RarityExclusive, RarityAstral,
}

// HighRarities — тиры, на которые действует буст выходных (×2 к вероятности).
var HighRarities = map[Rarity]bool{
	RarityLegendary: true,
	RarityMythic:    true,
	RarityOmega:     true,
	RarityExclusive: true,
}

// IsGated сообщает, закрыта ли редкость за Книгой Фантазий.
func IsGated(r Rarity) bool {
	return Table[r].Gated
}

// RarityIndex возвращает позицию редкости в AllRarities (0 = самая редкая).
// Неизвестная редкость считается самой частой.
func RarityIndex(r Rarity) int {
	for i, x := range AllRarities {
		if x == r {
			return i
		}
	}
	return len(AllRarities) - 1
}

// Rarer сообщает, реже ли a, чем b.
func Rarer(a, b Rarity) bool {
	return RarityIndex(a) < RarityIndex(b)
}
