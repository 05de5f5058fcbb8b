package services

import (
	"context"
	"errors"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

// AuthService implements authentication business logic. Accounts are
// provisioned out of band, so login is the only entry point.
type AuthService struct {
	userRepo ports.UserRepository
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo ports.UserRepository) ports.AuthService {
	return &AuthService{userRepo: userRepo}
}

// Login authenticates a user with email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" {
		return nil, apperrors.ErrEmailRequired
	}
	if password == "" {
		return nil, apperrors.ErrPasswordRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Don't reveal whether the email exists
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	return user, nil
}
