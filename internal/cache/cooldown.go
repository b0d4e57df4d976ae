package cache

import (
	"context"
	"fmt"
	"time"
)

// Cooldowns отслеживает кулдауны команд поверх любого бэкенда Cache.
// Ключ — пара (пользователь, действие).
type Cooldowns struct {
	cache Cache
}

func NewCooldowns(cache Cache) *Cooldowns {
	return &Cooldowns{cache: cache}
}

func cooldownKey(userID int64, action string) string {
	return fmt.Sprintf("cd:%d:%s", userID, action)
}

// Remaining возвращает остаток кулдауна (0 — действие доступно).
func (c *Cooldowns) Remaining(ctx context.Context, userID int64, action string) (time.Duration, error) {
	return c.cache.TTL(ctx, cooldownKey(userID, action))
}

// Arm взводит кулдаун действия на ttl. Нулевой и отрицательный ttl
// игнорируется: кулдаун может быть выключен конфигом или сжат бустом.
func (c *Cooldowns) Arm(ctx context.Context, userID int64, action string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.cache.Set(ctx, cooldownKey(userID, action), []byte{1}, ttl)
}

// Reset снимает кулдаун действия.
func (c *Cooldowns) Reset(ctx context.Context, userID int64, action string) error {
	return c.cache.Delete(ctx, cooldownKey(userID, action))
}
