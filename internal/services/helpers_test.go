package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"storefront-api/internal/auth"
	"storefront-api/internal/domain"
	"storefront-api/internal/mocks"
	"storefront-api/internal/repository/gormstore"
	"storefront-api/internal/testdb"
)

const testSecret = "test-secret"

func newTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(testSecret, time.Hour, "storefront-api")
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createMockProduct(id uint64, name, price string, stock int) *domain.Product {
	return &domain.Product{ID: id, Name: name, Price: money(price), StockQuantity: stock, CategoryID: 1}
}

// stack wires the services to a database through the gorm repositories.
type stack struct {
	db      *gorm.DB
	auth    *AuthService
	catalog *CatalogService
	carts   *CartService
	orders  *OrderService
	pub     *mocks.MockPublisher
}

func newStack(t *testing.T) *stack {
	t.Helper()
	return stackOn(testdb.Open(t))
}

func stackOn(db *gorm.DB) *stack {
	tx := gormstore.NewTransactor(db)
	users := gormstore.NewUserRepository(db)
	categories := gormstore.NewCategoryRepository(db)
	products := gormstore.NewProductRepository(db)
	carts := gormstore.NewCartRepository(db)
	orders := gormstore.NewOrderRepository(db)

	pub := new(mocks.MockPublisher)
	pub.On("Publish", mock.Anything, domain.EventOrderCreated, mock.Anything).Return(nil).Maybe()

	return &stack{
		db:      db,
		auth:    NewAuthService(users, newTokenManager()),
		catalog: NewCatalogService(tx, categories, products, carts),
		carts:   NewCartService(carts, products),
		orders:  NewOrderService(tx, orders, carts, products, pub),
		pub:     pub,
	}
}
