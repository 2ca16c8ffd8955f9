package repository

import (
	"context"

	"storefront-api/internal/domain"
)

type CategoryRepository interface {
	Save(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id uint64) (bool, error)
	FindByID(ctx context.Context, id uint64) (*domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
}

type ProductRepository interface {
	Save(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id uint64) (bool, error)
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error)

	// LockByIDs reads the products with row locks held until the surrounding
	// transaction ends. Rows are locked in ascending id order.
	LockByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)

	// DecrementStock subtracts quantity only when enough stock is left. It
	// reports false when the guard rejected the update.
	DecrementStock(ctx context.Context, id uint64, quantity int) (bool, error)
}
