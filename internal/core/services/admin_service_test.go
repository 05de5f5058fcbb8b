package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
	"github.com/andre-sptr/sitiket-sub000/internal/core/mocks"
	"github.com/andre-sptr/sitiket-sub000/internal/core/services"
)

func TestAdminService_UpdateUserRole(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	targetID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository()
		mockAuthz := mocks.NewMockAuthorizationService()
		mockFeed := mocks.NewMockChangefeedService()

		mockAuthz.On("Can", ctx, adminID, "users:manage").Return(true, nil)
		mockUsers.On("GetByID", ctx, targetID).Return(&domain.User{ID: targetID, Role: domain.RoleGuest, IsActive: true}, nil)
		mockUsers.On("SetRole", ctx, targetID, domain.RoleHD).Return(nil)
		mockFeed.On("Notify", domain.TableUsers).Return()

		svc := services.NewAdminService(mockUsers, mockAuthz, mockFeed)
		err := svc.UpdateUserRole(ctx, adminID, targetID, domain.RoleHD)

		require.NoError(t, err)
		mockFeed.AssertExpectations(t)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository()
		mockAuthz := mocks.NewMockAuthorizationService()
		mockFeed := mocks.NewMockChangefeedService()

		mockAuthz.On("Can", ctx, adminID, "users:manage").Return(false, nil)

		svc := services.NewAdminService(mockUsers, mockAuthz, mockFeed)
		err := svc.UpdateUserRole(ctx, adminID, targetID, domain.RoleHD)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockUsers.AssertNotCalled(t, "SetRole")
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository()
		mockAuthz := mocks.NewMockAuthorizationService()
		mockFeed := mocks.NewMockChangefeedService()

		mockAuthz.On("Can", ctx, adminID, "users:manage").Return(true, nil)

		svc := services.NewAdminService(mockUsers, mockAuthz, mockFeed)
		err := svc.UpdateUserRole(ctx, adminID, targetID, domain.Role("root"))

		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	})

	t.Run("self demotion rejected", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository()
		mockAuthz := mocks.NewMockAuthorizationService()
		mockFeed := mocks.NewMockChangefeedService()

		mockAuthz.On("Can", ctx, adminID, "users:manage").Return(true, nil)

		svc := services.NewAdminService(mockUsers, mockAuthz, mockFeed)
		err := svc.UpdateUserRole(ctx, adminID, adminID, domain.RoleGuest)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockUsers.AssertNotCalled(t, "SetRole")
	})
}

func TestAdminService_UpdateUserStatus(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()

	t.Run("self deactivation rejected", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository()
		mockAuthz := mocks.NewMockAuthorizationService()
		mockFeed := mocks.NewMockChangefeedService()

		mockAuthz.On("Can", ctx, adminID, "users:manage").Return(true, nil)

		svc := services.NewAdminService(mockUsers, mockAuthz, mockFeed)
		err := svc.UpdateUserStatus(ctx, adminID, adminID, false)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockUsers.AssertNotCalled(t, "SetActive")
	})
}

func TestAdminService_ResetUserPassword(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	targetID := uuid.New()

	t.Run("returns a usable temporary password", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository()
		mockAuthz := mocks.NewMockAuthorizationService()
		mockFeed := mocks.NewMockChangefeedService()

		mockAuthz.On("Can", ctx, adminID, "users:manage").Return(true, nil)
		mockUsers.On("GetByID", ctx, targetID).Return(&domain.User{ID: targetID, Role: domain.RoleHD, IsActive: true}, nil)
		mockUsers.On("UpdatePassword", ctx, targetID, mock.AnythingOfType("string")).Return(nil)

		svc := services.NewAdminService(mockUsers, mockAuthz, mockFeed)
		password, err := svc.ResetUserPassword(ctx, adminID, targetID)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(password), 12)
		// The generated password must satisfy the same policy users face.
		assert.Empty(t, domain.ValidatePassword(password))
	})
}

func TestAdminService_CreateUser(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()

	t.Run("rejected even for admins", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository()
		mockAuthz := mocks.NewMockAuthorizationService()
		mockFeed := mocks.NewMockChangefeedService()

		mockAuthz.On("Can", ctx, adminID, "users:manage").Return(true, nil)

		svc := services.NewAdminService(mockUsers, mockAuthz, mockFeed)
		err := svc.CreateUser(ctx, adminID)

		assert.ErrorIs(t, err, apperrors.ErrUnsupportedAction)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "UNSUPPORTED_ACTION", appErr.Code)
	})
}
