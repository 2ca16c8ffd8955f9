package gormstore

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

// Save writes the order row first so the items can carry its ID. Outside a
// transaction both inserts run in their own one.
func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Omit(clause.Associations).Create(order)
		if result.Error != nil {
			log.Printf("order save error: %v", result.Error)
			return result.Error
		}
		if order.ID == 0 {
			log.Printf("WARNING: order saved but ID is still 0. Rows affected: %d", result.RowsAffected)
			return errors.New("failed to assign order ID")
		}
		if len(order.Items) == 0 {
			return nil
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		if err := tx.Omit(clause.Associations).Create(&order.Items).Error; err != nil {
			log.Printf("order items save error: %v", err)
			return err
		}
		return nil
	})
}

func (r *orderRepo) FindByIDForUser(ctx context.Context, id, userID uint64) (*domain.Order, error) {
	var o domain.Order
	err := withItems(conn(ctx, r.db)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("FindByIDForUser error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	out := []domain.Order{}
	err := withItems(conn(ctx, r.db)).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&out).Error
	if err != nil {
		log.Printf("FindByUser error: %v", err)
		return nil, err
	}
	return out, nil
}

// withItems preloads the lines and their products. Deleted products are still
// shown on past orders.
func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}
