package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
	"github.com/andre-sptr/sitiket-sub000/internal/core/mocks"
	"github.com/andre-sptr/sitiket-sub000/internal/core/services"
)

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	newUser := func(password string, active bool) *domain.User {
		hashed, err := domain.HashPassword(password)
		require.NoError(t, err)
		return &domain.User{
			ID:             uuid.New(),
			FullName:       "Dewi Lestari",
			Email:          "dewi@example.com",
			HashedPassword: hashed,
			Role:           domain.RoleHD,
			IsActive:       active,
		}
	}

	t.Run("success", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		user := newUser("Sekure123", true)
		mockRepo.On("GetByEmail", ctx, "dewi@example.com").Return(user, nil)

		svc := services.NewAuthService(mockRepo)
		got, err := svc.Login(ctx, "dewi@example.com", "Sekure123")

		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		mockRepo.On("GetByEmail", ctx, "dewi@example.com").Return(newUser("Sekure123", true), nil)

		svc := services.NewAuthService(mockRepo)
		_, err := svc.Login(ctx, "dewi@example.com", "Wrong1234")

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		mockRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrUserNotFound)

		svc := services.NewAuthService(mockRepo)
		_, err := svc.Login(ctx, "ghost@example.com", "Whatever1")

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("disabled account rejected after password check", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		mockRepo.On("GetByEmail", ctx, "dewi@example.com").Return(newUser("Sekure123", false), nil)

		svc := services.NewAuthService(mockRepo)
		_, err := svc.Login(ctx, "dewi@example.com", "Sekure123")

		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})

	t.Run("empty inputs rejected", func(t *testing.T) {
		svc := services.NewAuthService(mocks.NewMockUserRepository())

		_, err := svc.Login(ctx, "", "Sekure123")
		assert.ErrorIs(t, err, apperrors.ErrEmailRequired)

		_, err = svc.Login(ctx, "dewi@example.com", "")
		assert.ErrorIs(t, err, apperrors.ErrPasswordRequired)
	})
}
