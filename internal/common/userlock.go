// Package common — userlock.go сериализует экономические операции по userID.
// Любая последовательность «прочитал аккаунт → изменил → записал» должна
// выполняться под локом пользователя, иначе два параллельных апдейта
// перетирают друг друга (lost update). Ретраи на уровне БД это не лечат.
package common

import "sync"

// UserLocker выдаёт мьютекс на каждого пользователя.
// Локи создаются лениво и никогда не удаляются: активных пользователей
// тысячи, а не миллионы, память тут не проблема.
type UserLocker struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewUserLocker создаёт пустой реестр локов.
func NewUserLocker() *UserLocker {
	return &UserLocker{locks: make(map[int64]*sync.Mutex)}
}

// Lock захватывает лок пользователя и возвращает функцию освобождения.
//
// Пример:
//
//	unlock := locker.Lock(userID)
//	defer unlock()
func (l *UserLocker) Lock(userID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
