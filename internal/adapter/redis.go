package adapter

import (
	"context"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RedisClient is the Redis surface the outbound rate limiter needs: health
// probing and limiter construction over one shared connection.
//
//go:generate mockgen -source=redis.go -destination=../mocks/redis.go -package=mocks -mock_names=RedisClient=MockRedisClient,RedisRateLimiter=MockRedisRateLimiter
type RedisClient interface {
	// Ping reports whether Redis is reachable
	Ping(ctx context.Context) *redis.StatusCmd
	// NewRateLimiter builds a distributed rate limiter over this connection
	NewRateLimiter() RedisRateLimiter
	// Close releases the connection
	Close() error
}

// RedisRateLimiter checks provider quota shared across service replicas
type RedisRateLimiter interface {
	// Allow reports whether a request under key fits the limit, with retry
	// timing when it does not
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RealRedisClient wraps a go-redis client
type RealRedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to the Redis instance backing the rate limiter
func NewRedisClient(addr, password string, db int) RedisClient {
	return &RealRedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (r *RealRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	return r.client.Ping(ctx)
}

func (r *RealRedisClient) NewRateLimiter() RedisRateLimiter {
	return NewRateLimiter(redis_rate.NewLimiter(r.client))
}

func (r *RealRedisClient) Close() error {
	return r.client.Close()
}

// RealRateLimiter wraps a redis_rate.Limiter
type RealRateLimiter struct {
	limiter *redis_rate.Limiter
}

// NewRateLimiter wraps an existing redis_rate.Limiter
func NewRateLimiter(limiter *redis_rate.Limiter) RedisRateLimiter {
	return &RealRateLimiter{limiter: limiter}
}

func (r *RealRateLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	return r.limiter.Allow(ctx, key, limit)
}
