package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-api/internal/domain"
	rediscache "storefront-api/internal/infra/redis"
	"storefront-api/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description"`
}

type CategoryUpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=255"`
	Description *string `json:"description"`
}

type ProductInput struct {
	Name          string           `json:"name" validate:"required,min=3,max=255"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity" validate:"required,gte=0"`
	CategoryID    *uint64          `json:"category_id" validate:"required"`
}

type ProductUpdateInput struct {
	Name          *string          `json:"name" validate:"omitempty,min=3,max=255"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,gte=0"`
	CategoryID    *uint64          `json:"category_id"`
}

type CatalogService struct {
	tx         repository.Transactor
	categories repository.CategoryRepository
	products   repository.ProductRepository
	carts      repository.CartRepository
	cache      rediscache.ProductCacheInterface
}

func NewCatalogService(
	tx repository.Transactor,
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	carts repository.CartRepository,
) *CatalogService {
	return &CatalogService{tx: tx, categories: categories, products: products, carts: carts}
}

func (s *CatalogService) SetProductCache(c rediscache.ProductCacheInterface) {
	s.cache = c
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, internal("list categories", err)
	}
	return out, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if verr := check(in); !verr.Empty() {
		return nil, verr
	}
	c := &domain.Category{Name: in.Name, Description: in.Description}
	if err := s.categories.Save(ctx, c); err != nil {
		return nil, internal("create category", err)
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint64, in CategoryUpdateInput) (*domain.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, internal("update category", err)
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if verr := check(in); !verr.Empty() {
		return nil, verr
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, internal("update category", err)
	}
	return c, nil
}

// DeleteCategory hides the category. Its products stay listed and keep their
// category_id.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint64) error {
	ok, err := s.categories.Delete(ctx, id)
	if err != nil {
		return internal("delete category", err)
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}

// ListProducts applies the page defaults: page 1, DefaultPageSize items,
// never more than MaxPageSize.
func (s *CatalogService) ListProducts(ctx context.Context, f domain.ProductFilter) (*domain.ProductPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	f.Search = strings.TrimSpace(f.Search)

	products, total, err := s.products.Find(ctx, f)
	if err != nil {
		return nil, internal("list products", err)
	}
	return &domain.ProductPage{
		Products:   products,
		Pagination: domain.NewPagination(f.Page, f.Limit, total),
	}, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	load := func(ctx context.Context) (*domain.Product, error) {
		return s.products.FindByID(ctx, id)
	}

	var (
		p   *domain.Product
		err error
	)
	if s.cache != nil {
		p, err = s.cache.Fetch(ctx, id, load)
	} else {
		p, err = load(ctx)
	}
	if err != nil {
		return nil, internal("get product", err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// WarmProductCache loads the first n catalog products into the cache and
// returns how many it stored. Without a cache it does nothing.
func (s *CatalogService) WarmProductCache(ctx context.Context, n int) (int, error) {
	if s.cache == nil || n < 1 {
		return 0, nil
	}
	if n > MaxPageSize {
		n = MaxPageSize
	}
	products, _, err := s.products.Find(ctx, domain.ProductFilter{Page: 1, Limit: n})
	if err != nil {
		return 0, internal("warm product cache", err)
	}
	warmed := 0
	for i := range products {
		p := &products[i]
		if _, err := s.cache.Fetch(ctx, p.ID, func(context.Context) (*domain.Product, error) { return p, nil }); err != nil {
			return warmed, internal("warm product cache", err)
		}
		warmed++
	}
	return warmed, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	verr := check(in)
	if in.Price == nil {
		verr.Add("price", "The price field is required.")
	}
	checkPrice(verr, "price", in.Price)
	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, verr, *in.CategoryID); err != nil {
			return nil, err
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	p := &domain.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price.Round(2),
		StockQuantity: *in.StockQuantity,
		CategoryID:    *in.CategoryID,
	}
	if err := s.products.Save(ctx, p); err != nil {
		return nil, internal("create product", err)
	}
	return s.reload(ctx, p.ID)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint64, in ProductUpdateInput) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, internal("update product", err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	verr := check(in)
	checkPrice(verr, "price", in.Price)
	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, verr, *in.CategoryID); err != nil {
			return nil, err
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = in.Price.Round(2)
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, internal("update product", err)
	}
	s.invalidate(ctx, p.ID)
	return s.reload(ctx, p.ID)
}

// DeleteProduct hides the product and drops it from every cart in one
// transaction. Past orders keep showing it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.products.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrProductNotFound
		}
		return s.carts.RemoveProduct(ctx, id)
	})
	if err != nil {
		if IsNotFound(err) {
			return err
		}
		return internal("delete product", err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) checkCategory(ctx context.Context, verr *ValidationError, id uint64) error {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return internal("check category", err)
	}
	if c == nil {
		verr.Add("category_id", "The selected category id is invalid.")
	}
	return nil
}

func (s *CatalogService) reload(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, internal("reload product", err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *CatalogService) invalidate(ctx context.Context, ids ...uint64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, ids...)
	}
}
