package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

type RedisCacheConfig struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// RedisCache is the shared Cache backed by redis.
type RedisCache struct {
	client rueidis.Client
}

func NewRedisCache(config RedisCacheConfig) (*RedisCache, error) {
	if config.Addr == "" {
		return nil, fmt.Errorf("redis: no address configured")
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = 5 * time.Second
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{config.Addr},
		Password:     config.Password,
		SelectDB:     config.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DialTimeout)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: failed to ping server: %w", err)
	}

	return &RedisCache{client: client}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Do(ctx, r.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	cmd := r.client.B().Set().Key(key).Value(value).Ex(ttl).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() {
	r.client.Close()
}
