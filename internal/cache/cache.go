// Package cache — быстрое key-value хранилище с TTL.
// Бот держит в нём кулдауны команд: memory-бэкенд для одного инстанса,
// Redis — когда кулдауны должны переживать рестарт.
package cache

import (
	"context"
	"time"
)

// Cache — общий интерфейс бэкендов.
type Cache interface {
	// Get возвращает значение по ключу. ErrCacheMiss, если ключа нет
	// или он истёк.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение с заданным TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет ключ.
	Delete(ctx context.Context, key string) error

	// TTL возвращает остаток жизни ключа (0, если ключа нет).
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Close освобождает ресурсы бэкенда.
	Close() error
}

// Error — ошибка кэша.
type Error string

func (e Error) Error() string { return string(e) }

// ErrCacheMiss — ключ не найден или истёк.
const ErrCacheMiss Error = "cache miss"
