package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront-api/internal/auth"
	"storefront-api/internal/domain"
	rediscache "storefront-api/internal/infra/redis"
	"storefront-api/internal/repository"
)

// bcrypt ignores everything past 72 bytes; the validator's max counts runes.
const maxPasswordBytes = 72

func emailTaken() *ValidationError {
	return NewValidationError("email", "The email has already been taken.")
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileInput struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=255"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
}

type AuthResult struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	denylist rediscache.TokenDenylistInterface
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// SetDenylist enables token revocation. Without it Logout is accepted and the
// token stays valid until it expires.
func (s *AuthService) SetDenylist(d rediscache.TokenDenylistInterface) {
	s.denylist = d
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	verr := check(in)
	if len(in.Password) > maxPasswordBytes {
		verr.Add("password", fmt.Sprintf("The password may not be greater than %d bytes.", maxPasswordBytes))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	taken, err := s.users.EmailTaken(ctx, in.Email, 0)
	if err != nil {
		return nil, internal("register", err)
	}
	if taken {
		return nil, emailTaken()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal("hash password", err)
	}

	u := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.users.Save(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, emailTaken()
		}
		return nil, internal("register", err)
	}
	return s.issue(u)
}

// Login never tells apart an unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if verr := check(in); !verr.Empty() {
		return nil, verr
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, internal("login", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *domain.User) (*AuthResult, error) {
	token, claims, err := s.tokens.Generate(u)
	if err != nil {
		return nil, internal("issue token", err)
	}
	return &AuthResult{
		User:      u,
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Authenticate verifies a bearer token and checks it was not revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Printf("auth: denylist lookup: %v", err)
			return nil, internal("authenticate", err)
		}
		if revoked {
			return nil, ErrUnauthorized
		}
	}
	return claims, nil
}

func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.denylist == nil {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.Remaining(time.Now())); err != nil {
		return internal("logout", err)
	}
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint64) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, internal("profile", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, in ProfileInput) (*domain.User, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	if verr := check(in); !verr.Empty() {
		return nil, verr
	}

	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != u.Email {
		taken, err := s.users.EmailTaken(ctx, *in.Email, u.ID)
		if err != nil {
			return nil, internal("update profile", err)
		}
		if taken {
			return nil, emailTaken()
		}
		u.Email = *in.Email
	}
	if in.Name != nil {
		u.Name = *in.Name
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, emailTaken()
		}
		return nil, internal("update profile", err)
	}
	return u, nil
}
