package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/domain"
	"storefront-api/internal/testdb"
)

func TestCartService_AddAccumulates(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	u := testdb.User(t, s.db, "cart@example.com", domain.RoleUser)
	c := testdb.Category(t, s.db, "Hosting")
	p := testdb.Product(t, s.db, c.ID, "Starter Hosting Package", "29.99", 10)

	_, err := s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	view, err := s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.True(t, money("149.95").Equal(view.Total))
	assert.Equal(t, 10, testdb.Stock(t, s.db, p.ID))
}

func TestCartService_TotalFollowsLivePrice(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	u := testdb.User(t, s.db, "cart@example.com", domain.RoleUser)
	c := testdb.Category(t, s.db, "Hosting")
	a := testdb.Product(t, s.db, c.ID, "A", "10.00", 10)
	b := testdb.Product(t, s.db, c.ID, "B", "2.50", 10)

	_, err := s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: b.ID, Quantity: 3})
	require.NoError(t, err)

	require.NoError(t, s.db.Model(&domain.Product{}).Where("id = ?", a.ID).Update("price", money("12.00")).Error)

	view, err := s.carts.View(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, money("31.50").Equal(view.Total))
}

func TestCartService_Errors(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	u := testdb.User(t, s.db, "cart@example.com", domain.RoleUser)
	c := testdb.Category(t, s.db, "Hosting")
	p := testdb.Product(t, s.db, c.ID, "VPS Server", "149.99", 2)
	other := testdb.Product(t, s.db, c.ID, "Cloud Server", "199.99", 2)

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"update without cart", func() error {
			_, err := s.carts.UpdateItem(ctx, u.ID, CartItemInput{ProductID: p.ID, Quantity: 1})
			return err
		}, ErrCartNotFound},
		{"remove without cart", func() error {
			_, err := s.carts.RemoveItem(ctx, u.ID, p.ID)
			return err
		}, ErrCartNotFound},
		{"clear without cart is fine", func() error {
			return s.carts.Clear(ctx, u.ID)
		}, nil},
		{"zero quantity", func() error {
			_, err := s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: p.ID, Quantity: 0})
			return err
		}, &ValidationError{}},
		{"negative quantity", func() error {
			_, err := s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: p.ID, Quantity: -1})
			return err
		}, &ValidationError{}},
		{"unknown product", func() error {
			_, err := s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: 9999, Quantity: 1})
			return err
		}, ErrProductNotFound},
		{"more than stock", func() error {
			_, err := s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: p.ID, Quantity: 3})
			return err
		}, ErrInsufficientStock},
		{"add within stock", func() error {
			_, err := s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: p.ID, Quantity: 2})
			return err
		}, nil},
		{"update item not in cart", func() error {
			_, err := s.carts.UpdateItem(ctx, u.ID, CartItemInput{ProductID: other.ID, Quantity: 1})
			return err
		}, ErrCartItemNotFound},
		{"update above stock", func() error {
			_, err := s.carts.UpdateItem(ctx, u.ID, CartItemInput{ProductID: p.ID, Quantity: 5})
			return err
		}, ErrInsufficientStock},
		{"remove item not in cart", func() error {
			_, err := s.carts.RemoveItem(ctx, u.ID, other.ID)
			return err
		}, ErrCartItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			switch want := tt.wantErr.(type) {
			case nil:
				assert.NoError(t, err)
			case *ValidationError:
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, "quantity")
			default:
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestCartService_UpdateRemoveClear(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	u := testdb.User(t, s.db, "cart@example.com", domain.RoleUser)
	c := testdb.Category(t, s.db, "Hosting")
	a := testdb.Product(t, s.db, c.ID, "A", "10.00", 10)
	b := testdb.Product(t, s.db, c.ID, "B", "5.00", 10)

	_, err := s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: a.ID, Quantity: 4})
	require.NoError(t, err)
	_, err = s.carts.AddItem(ctx, u.ID, CartItemInput{ProductID: b.ID, Quantity: 1})
	require.NoError(t, err)

	view, err := s.carts.UpdateItem(ctx, u.ID, CartItemInput{ProductID: a.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Items[0].Quantity)
	assert.True(t, money("15").Equal(view.Total))

	view, err = s.carts.RemoveItem(ctx, u.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	require.NoError(t, s.carts.Clear(ctx, u.ID))
	view, err = s.carts.View(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.EqualValues(t, 1, testdb.Count(t, s.db, &domain.Cart{}))
}
