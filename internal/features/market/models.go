// Package market генерирует персональные почасовые каталоги: рынок фумо
// и магазин расходников. models.go — структуры каталога.
package market

import (
	"time"

	"fumoworld.ru/fumo-bot/internal/features/items"
)

// Kind — вид каталога.
type Kind string

const (
	KindMarket Kind = "market" // Рынок фумо
	KindShop   Kind = "shop"   // Магазин расходников
)

// CatalogItem — одна позиция каталога.
type CatalogItem struct {
	ItemKey  string       // Ключ предмета для инвентаря
	Display  string       // Имя для сообщений бота
	Rarity   items.Rarity // Редкость позиции
	Stock    int          // Остаток
	Price    int64        // Цена в монетах (0 = продаётся за гемы)
	GemPrice int64        // Цена в гемах (0 = продаётся за монеты)

	// Только магазин: распроданная позиция остаётся с этой пометкой.
	// Рынок распроданные позиции удаляет совсем.
	OutOfStock bool
}

// Catalog — персональный каталог, живущий до ResetTime.
type Catalog struct {
	UserID      int64
	Kind        Kind
	Items       []*CatalogItem
	ResetTime   time.Time // Начало следующего часа: после него каталог мёртв
	GeneratedAt time.Time
}

// Expired сообщает, пора ли перегенерировать каталог.
func (c *Catalog) Expired(now time.Time) bool {
	return now.After(c.ResetTime)
}

// Find ищет позицию по ключу (nil, если нет).
func (c *Catalog) Find(itemKey string) *CatalogItem {
	for _, it := range c.Items {
		if it.ItemKey == itemKey {
			return it
		}
	}
	return nil
}
