package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"storefront-api/internal/domain"
	rabbit "storefront-api/internal/infra/rabbitmq"
	rediscache "storefront-api/internal/infra/redis"
	"storefront-api/internal/repository"
)

type OrderService struct {
	tx        repository.Transactor
	orders    repository.OrderRepository
	carts     repository.CartRepository
	products  repository.ProductRepository
	publisher rabbit.PublisherInterface
	cache     rediscache.ProductCacheInterface
}

func NewOrderService(
	tx repository.Transactor,
	orders repository.OrderRepository,
	carts repository.CartRepository,
	products repository.ProductRepository,
	pub rabbit.PublisherInterface,
) *OrderService {
	return &OrderService{
		tx:        tx,
		orders:    orders,
		carts:     carts,
		products:  products,
		publisher: pub,
	}
}

func (u *OrderService) SetProductCache(c rediscache.ProductCacheInterface) {
	u.cache = c
}

// PlaceOrder turns the user's cart into an order. Either every effect lands
// (order and items written, stock decremented, cart emptied) or none does.
//
// The cart is checked once without locks so obvious failures return early.
// Inside the transaction the cart row and then the product rows, in ascending
// id order, are locked and everything is checked again against the locked
// rows. The stock decrement itself is guarded as well.
func (u *OrderService) PlaceOrder(ctx context.Context, userID uint64) (*domain.Order, error) {
	cart, err := u.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, internal("find cart", err)
	}
	if cart == nil {
		return nil, ErrEmptyCart
	}
	items, err := u.carts.Items(ctx, cart.ID)
	if err != nil {
		return nil, internal("cart items", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range items {
		if it.Product == nil || !it.Product.InStock(it.Quantity) {
			return nil, stockError(it, it.Product)
		}
	}

	var (
		order   *domain.Order
		touched []uint64
	)
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := u.carts.LockByUser(ctx, userID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrEmptyCart
		}
		items, err := u.carts.Items(ctx, locked.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		ids := make([]uint64, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		products, err := u.products.LockByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uint64]*domain.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		order = &domain.Order{UserID: userID, Status: domain.StatusPending}
		total := decimal.Zero
		for _, it := range items {
			p, ok := byID[it.ProductID]
			if !ok || !p.InStock(it.Quantity) {
				return stockError(it, p)
			}
			line := domain.OrderItem{ProductID: p.ID, Quantity: it.Quantity, Price: p.Price}
			order.Items = append(order.Items, line)
			total = total.Add(line.Subtotal())
		}
		if total.GreaterThan(domain.MaxOrderTotal) {
			return NewValidationError("total_amount", fmt.Sprintf("The order total may not be greater than %s.", domain.MaxOrderTotal.StringFixed(2)))
		}
		order.TotalAmount = total

		if err := u.orders.Save(ctx, order); err != nil {
			return err
		}
		for _, line := range order.Items {
			ok, err := u.products.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return stockError(domain.CartItem{ProductID: line.ProductID, Quantity: line.Quantity}, byID[line.ProductID])
			}
		}
		touched = ids
		return u.carts.Clear(ctx, locked.ID)
	})
	if err != nil {
		var verr *ValidationError
		if errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrInsufficientStock) || errors.As(err, &verr) {
			return nil, err
		}
		log.Printf("order: place for user %d: %v", userID, err)
		return nil, internal("place order", err)
	}

	u.invalidate(ctx, touched)

	placed, err := u.orders.FindByIDForUser(ctx, order.ID, userID)
	if err != nil || placed == nil {
		log.Printf("order: reload %d after commit: %v", order.ID, err)
		placed = order
	}

	u.publishOrderCreatedEvent(ctx, placed)
	return placed, nil
}

func stockError(it domain.CartItem, p *domain.Product) *StockError {
	e := &StockError{ProductID: it.ProductID, Requested: it.Quantity}
	switch {
	case p != nil:
		e.ProductName = p.Name
		e.Available = p.StockQuantity
	case it.Product != nil:
		e.ProductName = it.Product.Name
	default:
		// Deleted while in the cart.
		e.ProductName = fmt.Sprintf("#%d", it.ProductID)
	}
	return e
}

func (u *OrderService) invalidate(ctx context.Context, ids []uint64) {
	if u.cache != nil && len(ids) > 0 {
		u.cache.Invalidate(ctx, ids...)
	}
}

func (u *OrderService) publishOrderCreatedEvent(ctx context.Context, order *domain.Order) {
	if u.publisher == nil {
		return
	}
	evt := domain.NewOrderCreatedEvent(order)
	if err := u.publisher.Publish(ctx, domain.EventOrderCreated, evt); err != nil {
		log.Printf("Failed to publish %s event for order %d: %v", domain.EventOrderCreated, order.ID, err)
	}
}

func (u *OrderService) GetOrder(ctx context.Context, userID, id uint64) (*domain.Order, error) {
	o, err := u.orders.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, internal("get order", err)
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (u *OrderService) ListOrders(ctx context.Context, userID uint64) ([]domain.Order, error) {
	out, err := u.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, internal("list orders", err)
	}
	return out, nil
}
