package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/domain"
	"storefront-api/internal/testdb"
)

func TestPlaceOrderEndToEnd(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	u := testdb.User(t, s.db, "buyer@example.com", domain.RoleUser)
	c := testdb.Category(t, s.db, "Hosting")
	a := testdb.Product(t, s.db, c.ID, "Product A", "100.00", 5)
	b := testdb.Product(t, s.db, c.ID, "Product B", "75.00", 3)

	_, err := s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: b.ID, Quantity: 1})
	require.NoError(t, err)

	order, err := s.orders.PlaceOrder(ctx, u.ID)
	require.NoError(t, err)

	assert.True(t, money("275.00").Equal(order.TotalAmount))
	assert.Equal(t, domain.StatusPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.True(t, money("100.00").Equal(order.Items[0].Price))
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, "Product A", order.Items[0].Product.Name)

	assert.Equal(t, 3, testdb.Stock(t, s.db, a.ID))
	assert.Equal(t, 2, testdb.Stock(t, s.db, b.ID))

	view, err := s.carts.View(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())

	list, err := s.orders.ListOrders(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, order.ID, list[0].ID)

	s.pub.AssertCalled(t, "Publish", ctx, domain.EventOrderCreated, domain.NewOrderCreatedEvent(order))
}

func TestPlaceOrderEmptyCartWritesNothing(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	u := testdb.User(t, s.db, "buyer@example.com", domain.RoleUser)

	_, err := s.orders.PlaceOrder(ctx, u.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = s.carts.View(ctx, u.ID)
	require.NoError(t, err)
	_, err = s.orders.PlaceOrder(ctx, u.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)

	assert.Zero(t, testdb.Count(t, s.db, &domain.Order{}))
	assert.Empty(t, s.pub.Calls)
}

func TestPlaceOrderInsufficientStockChangesNothing(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	u := testdb.User(t, s.db, "buyer@example.com", domain.RoleUser)
	c := testdb.Category(t, s.db, "Hosting")
	a := testdb.Product(t, s.db, c.ID, "Product A", "100.00", 5)
	b := testdb.Product(t, s.db, c.ID, "Product B", "75.00", 3)

	_, err := s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: b.ID, Quantity: 3})
	require.NoError(t, err)

	// Someone else bought B in the meantime.
	require.NoError(t, s.db.Model(&domain.Product{}).Where("id = ?", b.ID).Update("stock_quantity", 2).Error)

	_, err = s.orders.PlaceOrder(ctx, u.ID)
	require.ErrorIs(t, err, ErrInsufficientStock)
	var se *StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Product B", se.ProductName)

	assert.Equal(t, 5, testdb.Stock(t, s.db, a.ID))
	assert.Equal(t, 2, testdb.Stock(t, s.db, b.ID))
	assert.Zero(t, testdb.Count(t, s.db, &domain.Order{}))
	assert.Zero(t, testdb.Count(t, s.db, &domain.OrderItem{}))

	view, err := s.carts.View(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
}

func TestConcurrentOrdersForLastUnit(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := testdb.Category(t, s.db, "Hosting")
	p := testdb.Product(t, s.db, c.ID, "Last VPS", "149.99", 1)

	const buyers = 4
	users := make([]*domain.User, buyers)
	for i := range users {
		users[i] = testdb.User(t, s.db, "buyer"+string(rune('a'+i))+"@example.com", domain.RoleUser)
		_, err := s.carts.AddItem(ctx, users[i].ID, CartItemInput{ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			_, err := s.orders.PlaceOrder(ctx, userID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	for _, err := range failures {
		assert.ErrorIs(t, err, ErrInsufficientStock)
	}
	assert.Zero(t, testdb.Stock(t, s.db, p.ID))
	assert.EqualValues(t, 1, testdb.Count(t, s.db, &domain.Order{}))
}

func TestGetOrderHidesForeignOrders(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	owner := testdb.User(t, s.db, "owner@example.com", domain.RoleUser)
	other := testdb.User(t, s.db, "other@example.com", domain.RoleUser)
	c := testdb.Category(t, s.db, "Hosting")
	p := testdb.Product(t, s.db, c.ID, "Product A", "10.00", 5)

	_, err := s.carts.AddItem(ctx, owner.ID, CartItemInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	order, err := s.orders.PlaceOrder(ctx, owner.ID)
	require.NoError(t, err)

	got, err := s.orders.GetOrder(ctx, owner.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = s.orders.GetOrder(ctx, other.ID, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = s.orders.GetOrder(ctx, owner.ID, order.ID+1000)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	list, err := s.orders.ListOrders(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
