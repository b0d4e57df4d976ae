// Package items — pool.go: статические пулы предметов.
// Фумо раздаются гачей и продаются на рынке; расходники — в магазине.
package items

// FumoPool — имена фумо по редкостям.
// Из этого пула собираются и гача-выдача, и каталог рынка.
var FumoPool = map[Rarity][]string{
	RarityCommon:       {"Cirno", "Rumia", "Wriggle", "Mystia", "Chen", "Daiyousei", "Kogasa", "Nazrin"},
	RarityUncommon:     {"Reimu", "Marisa", "Sanae", "Youmu", "Aya", "Momiji", "Nitori"},
	RarityRare:         {"Sakuya", "Alice", "Patchouli", "Reisen", "Tewi", "Keine"},
	RarityEpic:         {"Remilia", "Youkai Yukari", "Ran", "Byakuren", "Miko"},
	RarityLegendary:    {"Flandre", "Koishi", "Satori", "Yuyuko"},
	RarityMythic:       {"Yukari", "Okina", "Kaguya", "Mokou"},
	RarityOmega:        {"Eiki", "Suwako", "Kanako"},
	RarityExclusive:    {"Junko", "Hecatia"},
	RarityAstral:       {"Zanmu", "Chimata"},
	RarityCelestial:    {"Shinki", "Mima"},
	RarityDivine:       {"Dream Reimu", "Dream Marisa"},
	RarityEternal:      {"Eternal Flandre"},
	RarityTranscendent: {"Transcendent Fumo"},
}

// Виды расходников (эффект при использовании).
const (
	EffectFantasyBook  = "fantasy_book"  // Открывает верхние редкости
	EffectFarmFragment = "farm_fragment" // +1 постоянный слот фермы
	EffectMystDice     = "myst_dice"     // Боост удачи со случайным почасовым множителем
	EffectRarityOrb    = "rarity_orb"    // Следующий ролл — случайный тир из фиксированного списка
	EffectLuckPotion   = "luck_potion"   // Временный буст удачи ×2
	EffectGoldenClover = "golden_clover" // Буст дохода монет ×1.5
	EffectGemPrism     = "gem_prism"     // Буст дохода гемов ×2
)

// Consumable — расходник из магазина.
type Consumable struct {
	Name     string // Ключ хранилища и каталога (без декораций)
	Display  string // Имя для сообщений бота
	Rarity   Rarity // Класс редкости для генерации каталога
	Price    int64  // Базовая цена в монетах
	GemPrice int64  // Цена в гемах (0 = продаётся за монеты)
	Effect   string // Что делает при использовании
	Uses     int    // Для бустов с ограничением применений (0 = не uses-буст)
	Hours    int    // Длительность буста в часах (0 = бессрочный)
}

// ConsumablePool — ассортимент магазина.
var ConsumablePool = []Consumable{
	{Name: "LuckPotion", Display: "Зелье удачи", Rarity: RarityRare, Price: 5000, Effect: EffectLuckPotion, Hours: 2},
	{Name: "GoldenClover", Display: "Золотой клевер", Rarity: RarityRare, Price: 8000, Effect: EffectGoldenClover, Hours: 6},
	{Name: "GemPrism", Display: "Гемовая призма", Rarity: RarityEpic, Price: 20000, Effect: EffectGemPrism, Hours: 6},
	{Name: "MysteriousDice", Display: "Таинственный кубик", Rarity: RarityLegendary, Price: 50000, Effect: EffectMystDice},
	{Name: "RarityOrb", Display: "Сфера редкости", Rarity: RarityMythic, GemPrice: 40, Price: 0, Effect: EffectRarityOrb, Uses: 3},
	{Name: "FarmFragment", Display: "Фрагмент фермы", Rarity: RarityOmega, GemPrice: 120, Price: 0, Effect: EffectFarmFragment},
	{Name: "FantasyBook", Display: "Книга Фантазий", Rarity: RarityExclusive, GemPrice: 500, Price: 0, Effect: EffectFantasyBook},
}

// FindConsumable ищет расходник по ключу. nil, если не найден.
func FindConsumable(name string) *Consumable {
	for i := range ConsumablePool {
		if ConsumablePool[i].Name == name {
			return &ConsumablePool[i]
		}
	}
	return nil
}

// FumoExists проверяет, есть ли фумо base в пуле редкости r.
func FumoExists(base string, r Rarity) bool {
	for _, n := range FumoPool[r] {
		if n == base {
			return true
		}
	}
	return false
}

// FumoCount возвращает суммарный размер пула фумо.
func FumoCount() int {
	n := 0
	for _, names := range FumoPool {
		n += len(names)
	}
	return n
}
