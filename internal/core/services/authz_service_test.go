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

func TestAuthorizationService_Can(t *testing.T) {
	ctx := context.Background()

	user := func(role domain.Role, active bool) *domain.User {
		return &domain.User{ID: uuid.New(), Role: role, IsActive: active}
	}

	cases := []struct {
		name       string
		role       domain.Role
		permission string
		want       bool
	}{
		{"admin can delete tickets", domain.RoleAdmin, "tickets:delete", true},
		{"admin can manage users", domain.RoleAdmin, "users:manage", true},
		{"hd can create tickets", domain.RoleHD, "tickets:create", true},
		{"hd can export reports", domain.RoleHD, "reports:export", true},
		{"hd cannot delete tickets", domain.RoleHD, "tickets:delete", false},
		{"hd cannot manage users", domain.RoleHD, "users:manage", false},
		{"guest can read tickets", domain.RoleGuest, "tickets:read", true},
		{"guest cannot create tickets", domain.RoleGuest, "tickets:create", false},
		{"guest cannot manage settings", domain.RoleGuest, "settings:manage", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := user(tc.role, true)
			mockRepo := mocks.NewMockUserRepository()
			mockRepo.On("GetByID", ctx, u.ID).Return(u, nil)

			svc := services.NewAuthorizationService(mockRepo)
			got, err := svc.Can(ctx, u.ID, tc.permission)

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("inactive admin degrades to guest", func(t *testing.T) {
		u := user(domain.RoleAdmin, false)
		mockRepo := mocks.NewMockUserRepository()
		mockRepo.On("GetByID", ctx, u.ID).Return(u, nil)

		svc := services.NewAuthorizationService(mockRepo)

		got, err := svc.Can(ctx, u.ID, "tickets:delete")
		require.NoError(t, err)
		assert.False(t, got)

		got, err = svc.Can(ctx, u.ID, "tickets:read")
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("unknown user denied with error", func(t *testing.T) {
		id := uuid.New()
		mockRepo := mocks.NewMockUserRepository()
		mockRepo.On("GetByID", ctx, id).Return(nil, apperrors.ErrUserNotFound)

		svc := services.NewAuthorizationService(mockRepo)
		got, err := svc.Can(ctx, id, "tickets:read")

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.False(t, got)
	})

	t.Run("unrecognized role treated as guest", func(t *testing.T) {
		u := &domain.User{ID: uuid.New(), Role: domain.Role("superuser"), IsActive: true}
		mockRepo := mocks.NewMockUserRepository()
		mockRepo.On("GetByID", ctx, u.ID).Return(u, nil)

		svc := services.NewAuthorizationService(mockRepo)
		role, err := svc.RoleOf(ctx, u.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.RoleGuest, role)
	})
}
