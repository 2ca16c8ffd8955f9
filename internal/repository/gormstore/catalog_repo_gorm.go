package gormstore

import (
	"context"
	"errors"
	"log"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository"
)

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Save(ctx context.Context, c *domain.Category) error {
	if err := conn(ctx, r.db).Create(c).Error; err != nil {
		log.Printf("category save error: %v", err)
		return err
	}
	return nil
}

func (r *categoryRepo) Update(ctx context.Context, c *domain.Category) error {
	err := conn(ctx, r.db).Model(c).Select("name", "description", "updated_at").Updates(c).Error
	if err != nil {
		log.Printf("category update error: %v", err)
		return err
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	result := conn(ctx, r.db).Delete(&domain.Category{}, id)
	if result.Error != nil {
		log.Printf("category delete error: %v", result.Error)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint64) (*domain.Category, error) {
	var c domain.Category
	if err := conn(ctx, r.db).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("category FindByID error: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	if err := conn(ctx, r.db).Order("id ASC").Find(&out).Error; err != nil {
		log.Printf("category FindAll error: %v", err)
		return nil, err
	}
	return out, nil
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Save(ctx context.Context, p *domain.Product) error {
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(p).Error; err != nil {
		log.Printf("product save error: %v", err)
		return err
	}
	return nil
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product) error {
	err := conn(ctx, r.db).Model(p).
		Omit(clause.Associations).
		Select("name", "description", "price", "stock_quantity", "category_id", "updated_at").
		Updates(p).Error
	if err != nil {
		log.Printf("product update error: %v", err)
		return err
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	result := conn(ctx, r.db).Delete(&domain.Product{}, id)
	if result.Error != nil {
		log.Printf("product delete error: %v", result.Error)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := conn(ctx, r.db).Preload("Category").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("product FindByID error: %v", err)
		return nil, err
	}
	return &p, nil
}

// Find returns one page of products matching every set filter, together with
// the number of matches across all pages.
func (r *productRepo) Find(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	filtered := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&domain.Product{})
		if f.CategoryID != nil {
			db = db.Where("category_id = ?", *f.CategoryID)
		}
		if f.MinPrice != nil {
			db = db.Where("price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			db = db.Where("price <= ?", *f.MaxPrice)
		}
		if f.Search != "" {
			db = db.Where("name LIKE ?", "%"+f.Search+"%")
		}
		return db
	}

	var total int64
	if err := filtered(conn(ctx, r.db)).Count(&total).Error; err != nil {
		log.Printf("product count error: %v", err)
		return nil, 0, err
	}

	out := []domain.Product{}
	err := filtered(conn(ctx, r.db)).
		Preload("Category").
		Order("id ASC").
		Limit(f.Limit).
		Offset(f.Offset()).
		Find(&out).Error
	if err != nil {
		log.Printf("product Find error: %v", err)
		return nil, 0, err
	}
	return out, total, nil
}

func (r *productRepo) LockByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	out := []domain.Product{}
	if len(ids) == 0 {
		return out, nil
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", sorted).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		log.Printf("product LockByIDs error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *productRepo) DecrementStock(ctx context.Context, id uint64, quantity int) (bool, error) {
	result := conn(ctx, r.db).Model(&domain.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		log.Printf("product DecrementStock error: %v", result.Error)
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
