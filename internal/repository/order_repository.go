package repository

import (
	"context"

	"storefront-api/internal/domain"
)

type OrderRepository interface {
	// Save inserts the order row and its items.
	Save(ctx context.Context, order *domain.Order) error
	FindByIDForUser(ctx context.Context, id, userID uint64) (*domain.Order, error)
	FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
}

// Transactor runs fn inside one database transaction. Repositories called with
// the ctx handed to fn take part in that transaction. A non-nil error from fn
// rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
