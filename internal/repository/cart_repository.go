package repository

import (
	"context"

	"storefront-api/internal/domain"
)

type CartRepository interface {
	// GetOrCreate is a single upsert followed by a read; concurrent callers
	// for the same user end up with the same cart.
	GetOrCreate(ctx context.Context, userID uint64) (*domain.Cart, error)
	FindByUser(ctx context.Context, userID uint64) (*domain.Cart, error)
	LockByUser(ctx context.Context, userID uint64) (*domain.Cart, error)

	// Items returns the cart lines joined with their live products.
	Items(ctx context.Context, cartID uint64) ([]domain.CartItem, error)
	FindItem(ctx context.Context, cartID, productID uint64) (*domain.CartItem, error)

	AddOrIncrement(ctx context.Context, cartID, productID uint64, quantity int) error
	SetQuantity(ctx context.Context, cartID, productID uint64, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID uint64) (bool, error)
	Clear(ctx context.Context, cartID uint64) error

	// RemoveProduct drops the product from every cart.
	RemoveProduct(ctx context.Context, productID uint64) error
}
