package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/config"
	"storefront/domain/storage"

	"github.com/redis/go-redis/v9"
)

// Store Redis 键值后端，会话作用域使用
//
// key 格式: <prefix>:<scope>:<key>
// 每次读写都刷新 TTL，会话空闲超过 TTL 后所有 key 自然过期
type Store struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewClient 按配置创建 Redis 客户端
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewStore ttl 为 0 表示不过期
func NewStore(client redis.Cmdable, prefix string, ttl time.Duration) *Store {
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) redisKey(scope storage.Scope, key string) string {
	if s.prefix == "" {
		return fmt.Sprintf("%s:%s", scope, key)
	}
	return fmt.Sprintf("%s:%s:%s", s.prefix, scope, key)
}

func (s *Store) Get(ctx context.Context, scope storage.Scope, key string) (string, error) {
	k := s.redisKey(scope, key)

	var cmd *redis.StringCmd
	if s.ttl > 0 {
		cmd = s.client.GetEx(ctx, k, s.ttl)
	} else {
		cmd = s.client.Get(ctx, k)
	}

	value, err := cmd.Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", k, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, scope storage.Scope, key, value string) error {
	k := s.redisKey(scope, key)
	if err := s.client.Set(ctx, k, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", k, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, scope storage.Scope, key string) error {
	k := s.redisKey(scope, key)
	if err := s.client.Del(ctx, k).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", k, err)
	}
	return nil
}

// Ping 供就绪检查使用
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

var _ storage.Backend = (*Store)(nil)
