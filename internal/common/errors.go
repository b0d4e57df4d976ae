// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки экономики (монеты, гемы)
var (
	// ErrInsufficientCoins — недостаточно монет на счёте
	ErrInsufficientCoins = errors.New("недостаточно монет на счёте")
	// ErrInsufficientGems — недостаточно гемов на счёте
	ErrInsufficientGems = errors.New("недостаточно гемов на счёте")
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
)

// Ошибки предметов и инвентаря
var (
	// ErrItemNotFound — такого предмета не существует
	ErrItemNotFound = errors.New("такого предмета не существует")
	// ErrNotInInventory — предмета нет в инвентаре (или не хватает количества)
	ErrNotInInventory = errors.New("предмета нет в инвентаре")
	// ErrItemNotUsable — предмет нельзя использовать
	ErrItemNotUsable = errors.New("этот предмет нельзя использовать")
)

// Ошибки рынка и магазина
var (
	// ErrOutOfStock — предмет закончился в каталоге
	ErrOutOfStock = errors.New("предмет закончился, жди обновления каталога")
	// ErrNotInCatalog — предмета нет в текущем каталоге
	ErrNotInCatalog = errors.New("предмета нет в текущем каталоге")
)

// Ошибки фермы
var (
	// ErrFarmSlotsFull — все слоты фермы заняты
	ErrFarmSlotsFull = errors.New("все слоты фермы заняты")
	// ErrFarmNotRunning — ферма для этого предмета не запущена
	ErrFarmNotRunning = errors.New("ферма для этого предмета не запущена")
	// ErrFragmentsMaxed — лимит фрагментов расширения уже достигнут
	ErrFragmentsMaxed = errors.New("лимит фрагментов расширения уже достигнут")
)

// Ошибки гачи
var (
	// ErrBoostAlreadyActive — буст-режим уже активен
	ErrBoostAlreadyActive = errors.New("буст-режим уже активен")
	// ErrBoostChargeLow — заряд буста ещё не накоплен
	ErrBoostChargeLow = errors.New("заряд буста ещё не накоплен")
)

// Общие ошибки
var (
	// ErrMaintenance — бот в режиме обслуживания
	ErrMaintenance = errors.New("бот на техобслуживании, попробуй позже")
	// ErrBanned — пользователь забанен
	ErrBanned = errors.New("доступ к экономике закрыт")
	// ErrChatNotAllowed — сообщение из неразрешённого группового чата
	ErrChatNotAllowed = errors.New("бот не работает в этом чате")
	// ErrCooldown — команда на кулдауне
	ErrCooldown = errors.New("не так быстро, подожди немного")
)
