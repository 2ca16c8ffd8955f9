package redis

import (
	"context"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// TokenDenylist remembers revoked token IDs until the token would have
// expired anyway.
type TokenDenylist struct {
	rdb *goredis.Client
}

func NewTokenDenylist(rdb *goredis.Client) *TokenDenylist {
	return &TokenDenylist{rdb: rdb}
}

func denylistKey(tokenID string) string {
	return "token:revoked:" + tokenID
}

func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, denylistKey(tokenID), 1, ttl).Err()
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, denylistKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
