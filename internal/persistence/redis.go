package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// KeyValue exposes the client as a namespaced KeyValue.
func (r *Redis) KeyValue(namespace string) *RedisKV {
	return &RedisKV{redis: r, namespace: namespace}
}

// RedisKV stores each key as a plain Redis string under "namespace:key".
type RedisKV struct {
	redis     *Redis
	namespace string
}

func (k *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := k.redis.Client.Get(ctx, namespacedKey(k.namespace, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (k *RedisKV) Put(ctx context.Context, key, value string) error {
	return k.redis.Client.Set(ctx, namespacedKey(k.namespace, key), value, 0).Err()
}

func (k *RedisKV) Delete(ctx context.Context, key string) (bool, error) {
	n, err := k.redis.Client.Del(ctx, namespacedKey(k.namespace, key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (k *RedisKV) Ping(ctx context.Context) error {
	return k.redis.Ping(ctx)
}
