package gormstore

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository"
)

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Save(ctx context.Context, u *domain.User) error {
	if err := conn(ctx, r.db).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrDuplicateEmail
		}
		log.Printf("user save error: %v", err)
		return err
	}
	return nil
}

func (r *userRepo) Update(ctx context.Context, u *domain.User) error {
	err := conn(ctx, r.db).Model(u).
		Select("name", "email", "password_hash", "role", "updated_at").
		Updates(u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrDuplicateEmail
		}
		log.Printf("user update error: %v", err)
		return err
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var u domain.User
	if err := conn(ctx, r.db).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("user FindByID error: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := conn(ctx, r.db).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("user FindByEmail error: %v", err)
		return nil, err
	}
	return &u, nil
}

// EmailTaken ignores the row with exceptID so a user can keep their address.
func (r *userRepo) EmailTaken(ctx context.Context, email string, exceptID uint64) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&domain.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&n).Error
	if err != nil {
		log.Printf("EmailTaken error: %v", err)
		return false, err
	}
	return n > 0, nil
}
