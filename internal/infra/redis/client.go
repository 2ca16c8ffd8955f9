// Package redis holds the Redis-backed helpers: the product read cache and
// the revoked token list.
package redis

import (
	"context"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

func NewClient(addr, password string) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		PoolSize:     200,
		MinIdleConns: 20,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}

func Ping(ctx context.Context, rdb *goredis.Client) error {
	return rdb.Ping(ctx).Err()
}
