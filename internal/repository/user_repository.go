package repository

import (
	"context"
	"errors"

	"storefront-api/internal/domain"
)

// ErrDuplicateEmail is returned by Save and Update when the email belongs to
// another user.
var ErrDuplicateEmail = errors.New("email already in use")

type UserRepository interface {
	Save(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailTaken(ctx context.Context, email string, exceptID uint64) (bool, error)
}
