// Package inventory управляет предметами на руках у игроков.
// models.go описывает запись инвентаря.
//
// Конвенция по нулевому количеству единая для всего проекта:
// строка с quantity = 0 немедленно удаляется, нулевых строк в таблице не бывает.
package inventory

import "time"

// Entry — одна позиция инвентаря: сколько предметов item у пользователя.
// ItemKey — сериализованный ключ предмета ("Reimu(UNCOMMON)[SHINY]"
// для фумо, "FarmFragment" для расходников).
type Entry struct {
	UserID    int64     `db:"user_id"`
	ItemKey   string    `db:"item_key"`
	Quantity  int64     `db:"quantity"` // Всегда > 0
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
