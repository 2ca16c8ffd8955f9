package gormstore

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository"
)

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) GetOrCreate(ctx context.Context, userID uint64) (*domain.Cart, error) {
	db := conn(ctx, r.db)
	fresh := domain.Cart{UserID: userID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(&fresh).Error
	if err != nil {
		log.Printf("cart create error: %v", err)
		return nil, err
	}

	var c domain.Cart
	if err := db.Where("user_id = ?", userID).First(&c).Error; err != nil {
		log.Printf("cart read error: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cartRepo) FindByUser(ctx context.Context, userID uint64) (*domain.Cart, error) {
	return r.findByUser(conn(ctx, r.db), userID)
}

func (r *cartRepo) LockByUser(ctx context.Context, userID uint64) (*domain.Cart, error) {
	return r.findByUser(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (r *cartRepo) findByUser(db *gorm.DB, userID uint64) (*domain.Cart, error) {
	var c domain.Cart
	if err := db.Where("user_id = ?", userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("cart findByUser error: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cartRepo) Items(ctx context.Context, cartID uint64) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := conn(ctx, r.db).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		log.Printf("cart Items error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *cartRepo) FindItem(ctx context.Context, cartID, productID uint64) (*domain.CartItem, error) {
	var it domain.CartItem
	err := conn(ctx, r.db).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&it).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("cart FindItem error: %v", err)
		return nil, err
	}
	return &it, nil
}

// AddOrIncrement inserts the line or adds quantity to the existing one in a
// single statement, so two concurrent adds never lose an increment.
func (r *cartRepo) AddOrIncrement(ctx context.Context, cartID, productID uint64, quantity int) error {
	item := domain.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
			"updated_at": time.Now(),
		}),
	}).Omit(clause.Associations).Create(&item).Error
	if err != nil {
		log.Printf("cart AddOrIncrement error: %v", err)
		return err
	}
	return nil
}

func (r *cartRepo) SetQuantity(ctx context.Context, cartID, productID uint64, quantity int) error {
	err := conn(ctx, r.db).Model(&domain.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", quantity).Error
	if err != nil {
		log.Printf("cart SetQuantity error: %v", err)
		return err
	}
	return nil
}

func (r *cartRepo) RemoveItem(ctx context.Context, cartID, productID uint64) (bool, error) {
	result := conn(ctx, r.db).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&domain.CartItem{})
	if result.Error != nil {
		log.Printf("cart RemoveItem error: %v", result.Error)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *cartRepo) Clear(ctx context.Context, cartID uint64) error {
	err := conn(ctx, r.db).Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error
	if err != nil {
		log.Printf("cart Clear error: %v", err)
		return err
	}
	return nil
}

func (r *cartRepo) RemoveProduct(ctx context.Context, productID uint64) error {
	err := conn(ctx, r.db).Where("product_id = ?", productID).Delete(&domain.CartItem{}).Error
	if err != nil {
		log.Printf("cart RemoveProduct error: %v", err)
		return err
	}
	return nil
}
