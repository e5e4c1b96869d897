package redisrepo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Default interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type Repository struct {
	Default
}

func New(rdb *redis.Client) *Repository {
	return &Repository{
		Default: newDefaultRepo(rdb),
	}
}
