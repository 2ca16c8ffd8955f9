package services

import (
	"context"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository"
)

type CartItemInput struct {
	ProductID uint64 `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// View returns the cart with every line priced at the live product price. The
// cart is created on first access.
func (s *CartService) View(ctx context.Context, userID uint64) (*domain.CartView, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, internal("get cart", err)
	}
	return s.view(ctx, cart)
}

func (s *CartService) view(ctx context.Context, cart *domain.Cart) (*domain.CartView, error) {
	items, err := s.carts.Items(ctx, cart.ID)
	if err != nil {
		return nil, internal("cart items", err)
	}
	return &domain.CartView{Cart: cart, Items: items, Total: domain.CartTotal(items)}, nil
}

// AddItem adds quantity to the line for the product, creating it when
// missing. The stock check covers the requested quantity only; stock is not
// reserved.
func (s *CartService) AddItem(ctx context.Context, userID uint64, in CartItemInput) (*domain.CartView, error) {
	if verr := check(in); !verr.Empty() {
		return nil, verr
	}
	p, err := s.product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.InStock(in.Quantity) {
		return nil, &StockError{ProductID: p.ID, ProductName: p.Name, Requested: in.Quantity, Available: p.StockQuantity}
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, internal("get cart", err)
	}
	if err := s.carts.AddOrIncrement(ctx, cart.ID, p.ID, in.Quantity); err != nil {
		return nil, internal("add to cart", err)
	}
	return s.view(ctx, cart)
}

// UpdateItem replaces the quantity of an existing line.
func (s *CartService) UpdateItem(ctx context.Context, userID uint64, in CartItemInput) (*domain.CartView, error) {
	if verr := check(in); !verr.Empty() {
		return nil, verr
	}
	cart, err := s.existingItem(ctx, userID, in.ProductID)
	if err != nil {
		return nil, err
	}
	p, err := s.product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.InStock(in.Quantity) {
		return nil, &StockError{ProductID: p.ID, ProductName: p.Name, Requested: in.Quantity, Available: p.StockQuantity}
	}
	if err := s.carts.SetQuantity(ctx, cart.ID, p.ID, in.Quantity); err != nil {
		return nil, internal("update cart", err)
	}
	return s.view(ctx, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint64) (*domain.CartView, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, internal("find cart", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	ok, err := s.carts.RemoveItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, internal("remove from cart", err)
	}
	if !ok {
		return nil, ErrCartItemNotFound
	}
	return s.view(ctx, cart)
}

// Clear empties the cart; a user without a cart is left untouched.
func (s *CartService) Clear(ctx context.Context, userID uint64) error {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return internal("find cart", err)
	}
	if cart == nil {
		return nil
	}
	if err := s.carts.Clear(ctx, cart.ID); err != nil {
		return internal("clear cart", err)
	}
	return nil
}

func (s *CartService) existingItem(ctx context.Context, userID, productID uint64) (*domain.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, internal("find cart", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	item, err := s.carts.FindItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, internal("find cart item", err)
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	return cart, nil
}

func (s *CartService) product(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, internal("find product", err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}
