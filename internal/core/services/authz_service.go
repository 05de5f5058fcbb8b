package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

// rolePermissions is the static role to permission mapping. Roles are
// coarse-grained on purpose: admin does everything, hd works tickets,
// guest only reads.
var rolePermissions = map[domain.Role][]string{
	domain.RoleAdmin: {
		"tickets:read", "tickets:create", "tickets:update", "tickets:delete",
		"progress:create",
		"reports:read", "reports:export",
		"technicians:read", "technicians:manage",
		"settings:read", "settings:manage",
		"users:manage",
	},
	domain.RoleHD: {
		"tickets:read", "tickets:create", "tickets:update",
		"progress:create",
		"reports:read", "reports:export",
		"technicians:read",
		"settings:read",
	},
	domain.RoleGuest: {
		"tickets:read",
		"reports:read",
		"technicians:read",
		"settings:read",
	},
}

// AuthorizationService implements role-based permission checks.
type AuthorizationService struct {
	userRepo ports.UserRepository
}

var _ ports.AuthorizationService = (*AuthorizationService)(nil)

// NewAuthorizationService creates a new service for authorization logic.
func NewAuthorizationService(userRepo ports.UserRepository) ports.AuthorizationService {
	return &AuthorizationService{userRepo: userRepo}
}

// Can checks if a user has a specific permission.
func (s *AuthorizationService) Can(ctx context.Context, userID uuid.UUID, permission string) (bool, error) {
	role, err := s.RoleOf(ctx, userID)
	if err != nil {
		// If the role cannot be resolved (e.g. db down), deny access.
		return false, err
	}

	for _, p := range rolePermissions[role] {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

// RoleOf resolves a user's role. Inactive users fall back to guest so that
// a disabled account keeps read access at most.
func (s *AuthorizationService) RoleOf(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return domain.RoleGuest, nil
	}
	if !domain.IsValidRole(user.Role) {
		return domain.RoleGuest, nil
	}
	return user.Role, nil
}

// PermissionsForRole returns a copy of the permission list for a role.
func PermissionsForRole(role domain.Role) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
