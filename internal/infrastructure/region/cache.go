package region

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/mid-portal-api/pkg/config"
)

const cacheKeyPrefix = "mid:region:plz:"

// NewRedisClient abre el cliente de Redis para la caché de regiones.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// Cache estado federado por código postal en Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache construye la caché. ttl <= 0 usa 24 h.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{client: client, ttl: ttl}
}

// Get devuelve el estado guardado; ok=false si no hay entrada.
func (c *Cache) Get(ctx context.Context, postalCode string) (state string, ok bool, err error) {
	state, err = c.client.Get(ctx, cacheKeyPrefix+postalCode).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("region cache get: %w", err)
	}
	return state, true, nil
}

// Set guarda el estado con el TTL configurado.
func (c *Cache) Set(ctx context.Context, postalCode, state string) error {
	if err := c.client.Set(ctx, cacheKeyPrefix+postalCode, state, c.ttl).Err(); err != nil {
		return fmt.Errorf("region cache set: %w", err)
	}
	return nil
}
