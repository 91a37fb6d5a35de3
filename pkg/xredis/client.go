package xredis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pepelotto/backend/pkg/xcontext"
	"github.com/redis/go-redis/v9"
)

type Client interface {
	Exist(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key ...string) error

	// Single object
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObj(ctx context.Context, key string, v any) error

	// Counter
	IncrBy(ctx context.Context, key string, incr int64) (int64, error)

	// Sorted list
	ZAdd(ctx context.Context, key string, z redis.Z) error
	ZIncrBy(ctx context.Context, key string, incr float64, member string) (float64, error)
	ZScore(ctx context.Context, key, member string) (float64, error)
	ZRevRangeWithScores(ctx context.Context, key string, offset, limit int) ([]redis.Z, error)
	ZRevRank(ctx context.Context, key string, member string) (uint64, error)
	ZCard(ctx context.Context, key string) (uint64, error)
}

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		Password:        xcontext.Configs(ctx).Redis.Password,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

///// COMMON FEATURE
func (c *client) Exist(ctx context.Context, key string) (bool, error) {
	n, err := c.redisClient.Exists(ctx, key).Uint64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (c *client) Del(ctx context.Context, key ...string) error {
	err := c.redisClient.Del(ctx, key...).Err()
	if err == nil || err == redis.Nil {
		return nil
	}

	return err
}

///// SINGLE OBJECT
func (c *client) Set(ctx context.Context, key, value string) error {
	return c.redisClient.Set(ctx, key, value, 0).Err()
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	return c.redisClient.Get(ctx, key).Result()
}

func (c *client) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return c.redisClient.Set(ctx, key, b, ttl).Err()
}

func (c *client) GetObj(ctx context.Context, key string, v any) error {
	s, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(s), v)
}

///// COUNTER
func (c *client) IncrBy(ctx context.Context, key string, incr int64) (int64, error) {
	return c.redisClient.IncrBy(ctx, key, incr).Result()
}

///// SORTED LIST
func (c *client) ZAdd(ctx context.Context, key string, z redis.Z) error {
	_, err := c.redisClient.ZAdd(ctx, key, z).Uint64()
	if err != nil {
		return err
	}

	return nil
}

func (c *client) ZIncrBy(ctx context.Context, key string, incr float64, member string) (float64, error) {
	return c.redisClient.ZIncrBy(ctx, key, incr, member).Result()
}

func (c *client) ZScore(ctx context.Context, key, member string) (float64, error) {
	return c.redisClient.ZScore(ctx, key, member).Result()
}

func (c *client) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	result := c.redisClient.ZRevRangeWithScores(ctx, key, int64(offset), int64(offset+limit-1))
	return result.Result()
}

func (c *client) ZRevRank(
	ctx context.Context, key string, member string,
) (uint64, error) {
	result := c.redisClient.ZRevRank(ctx, key, member)
	return result.Uint64()
}

func (c *client) ZCard(ctx context.Context, key string) (uint64, error) {
	n, err := c.redisClient.ZCard(ctx, key).Result()
	return uint64(n), err
}

// IsNil reports whether err is the redis nil-reply error, returned when a
// key or zset member does not exist.
func IsNil(err error) bool {
	return err == redis.Nil
}
