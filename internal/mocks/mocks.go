// Package mocks holds testify mocks for the repository and infra interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"storefront-api/internal/domain"
	rediscache "storefront-api/internal/infra/redis"
)

type MockOrderRepository struct {
	mock.Mock
}

type MockCartRepository struct {
	mock.Mock
}

type MockProductRepository struct {
	mock.Mock
}

type MockCategoryRepository struct {
	mock.Mock
}

type MockUserRepository struct {
	mock.Mock
}

// MockTransactor runs fn directly unless the expectation returns an error.
type MockTransactor struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockProductCache struct {
	mock.Mock
}

type MockTokenDenylist struct {
	mock.Mock
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

func (m *MockPublisher) Publish(ctx context.Context, pattern string, data any) error {
	args := m.Called(ctx, pattern, data)
	return args.Error(0)
}

func (m *MockProductCache) Fetch(ctx context.Context, id uint64, load rediscache.ProductLoader) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		// Miss: fall through to the loader like the real cache.
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		return load(ctx)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductCache) Invalidate(ctx context.Context, ids ...uint64) {
	m.Called(ctx, ids)
}

func (m *MockTokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByIDForUser(ctx context.Context, id, userID uint64) (*domain.Order, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockCartRepository) GetOrCreate(ctx context.Context, userID uint64) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uint64) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartRepository) LockByUser(ctx context.Context, userID uint64) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartRepository) Items(ctx context.Context, cartID uint64) ([]domain.CartItem, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindItem(ctx context.Context, cartID, productID uint64) (*domain.CartItem, error) {
	args := m.Called(ctx, cartID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *MockCartRepository) AddOrIncrement(ctx context.Context, cartID, productID uint64, quantity int) error {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) SetQuantity(ctx context.Context, cartID, productID uint64, quantity int) error {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, cartID, productID uint64) (bool, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) Clear(ctx context.Context, cartID uint64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *MockCartRepository) RemoveProduct(ctx context.Context, productID uint64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockProductRepository) Save(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) LockByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uint64, quantity int) (bool, error) {
	args := m.Called(ctx, id, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint64) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) EmailTaken(ctx context.Context, email string, exceptID uint64) (bool, error) {
	args := m.Called(ctx, email, exceptID)
	return args.Bool(0), args.Error(1)
}
