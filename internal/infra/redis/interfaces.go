package redis

import (
	"context"
	"time"

	"storefront-api/internal/domain"
)

type ProductLoader func(ctx context.Context) (*domain.Product, error)

type ProductCacheInterface interface {
	Fetch(ctx context.Context, id uint64, load ProductLoader) (*domain.Product, error)
	Invalidate(ctx context.Context, ids ...uint64)
}

type TokenDenylistInterface interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

var (
	_ ProductCacheInterface  = (*ProductCache)(nil)
	_ TokenDenylistInterface = (*TokenDenylist)(nil)
)
