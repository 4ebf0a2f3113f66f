package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ndrop-api/core/config"
	"ndrop-api/core/constants"
	"ndrop-api/core/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const unreadCountTTL = 5 * time.Minute

type Cache interface {
	AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)

	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, bool, error)
	SetUnreadCount(ctx context.Context, userID uuid.UUID, count int) error
	InvalidateUnreadCount(ctx context.Context, userIDs ...uuid.UUID) error

	Close() error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis initialized successfully", "host", cfg.Host, "port", cfg.Port, "db", cfg.DB)
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired, nothing to blacklist.
		return nil
	}
	return c.client.Set(ctx, constants.RedisKeyTokenBlacklist+token, "1", ttl).Err()
}

func (c *RedisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, constants.RedisKeyTokenBlacklist+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisCache) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	val, err := c.client.Get(ctx, constants.RedisKeyUnreadCount+userID.String()).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, nil
	}
	return count, true, nil
}

func (c *RedisCache) SetUnreadCount(ctx context.Context, userID uuid.UUID, count int) error {
	return c.client.Set(ctx, constants.RedisKeyUnreadCount+userID.String(), count, unreadCountTTL).Err()
}

func (c *RedisCache) InvalidateUnreadCount(ctx context.Context, userIDs ...uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, constants.RedisKeyUnreadCount+id.String())
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
