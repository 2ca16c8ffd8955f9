//go:build integration

package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"storefront-api/internal/config"
	"storefront-api/internal/domain"
	"storefront-api/internal/infra/database"
	"storefront-api/internal/testdb"
)

// setupPostgres starts a PostgreSQL container and returns a migrated
// connection pool that allows real row locking.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("storefront"),
		postgres.WithPassword("storefront"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(&config.Config{
		DBDriver:       "postgres",
		DatabaseURL:    dsn,
		DBMaxOpenConns: 20,
		DBMaxIdleConns: 5,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestPlaceOrderConcurrentBuyersPostgres(t *testing.T) {
	s := stackOn(setupPostgres(t))
	ctx := context.Background()
	c := testdb.Category(t, s.db, "Hosting")
	p := testdb.Product(t, s.db, c.ID, "VPS Server", "149.99", 3)

	const buyers = 10
	ids := make([]uint64, buyers)
	for i := range ids {
		u := testdb.User(t, s.db, fmt.Sprintf("buyer%d@example.com", i), domain.RoleUser)
		_, err := s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)
		ids[i] = u.ID
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		placed   int
		rejected int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			_, err := s.orders.PlaceOrder(ctx, userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed++
			case assert.ErrorIs(t, err, ErrInsufficientStock):
				rejected++
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, placed)
	assert.Equal(t, buyers-3, rejected)
	assert.Zero(t, testdb.Stock(t, s.db, p.ID))
	assert.EqualValues(t, 3, testdb.Count(t, s.db, &domain.Order{}))
}

// Two carts holding the same products added in opposite order must not
// deadlock: rows are always locked in ascending id order.
func TestPlaceOrderOppositeCartOrderPostgres(t *testing.T) {
	s := stackOn(setupPostgres(t))
	ctx := context.Background()
	c := testdb.Category(t, s.db, "Hosting")
	a := testdb.Product(t, s.db, c.ID, "Product A", "10.00", 100)
	b := testdb.Product(t, s.db, c.ID, "Product B", "20.00", 100)

	const rounds = 20
	users := make([]uint64, 0, rounds*2)
	for i := 0; i < rounds; i++ {
		u1 := testdb.User(t, s.db, fmt.Sprintf("ab%d@example.com", i), domain.RoleUser)
		u2 := testdb.User(t, s.db, fmt.Sprintf("ba%d@example.com", i), domain.RoleUser)
		for _, step := range []struct {
			user, product uint64
		}{{u1.ID, a.ID}, {u1.ID, b.ID}, {u2.ID, b.ID}, {u2.ID, a.ID}} {
			_, err := s.carts.AddItem(ctx, step.user, CartItemInput{ProductID: step.product, Quantity: 1})
			require.NoError(t, err)
		}
		users = append(users, u1.ID, u2.ID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(users))
	for _, id := range users {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			_, err := s.orders.PlaceOrder(ctx, userID)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 100-len(users), testdb.Stock(t, s.db, a.ID))
	assert.Equal(t, 100-len(users), testdb.Stock(t, s.db, b.ID))
}
