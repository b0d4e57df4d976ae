package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache — Redis-реализация Cache. Кулдауны переживают рестарт
// бота и разделяются между инстансами.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig — параметры подключения.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisCache подключается к Redis и проверяет связь.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}
	return &RedisCache{client: client, keyPrefix: cfg.KeyPrefix}, nil
}

func (c *RedisCache) key(k string) string {
	return c.keyPrefix + k
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	left, err := c.client.PTTL(ctx, c.key(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis pttl: %w", err)
	}
	// PTTL возвращает отрицательные значения для отсутствующих ключей
	// и ключей без TTL.
	if left < 0 {
		return 0, nil
	}
	return left, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
