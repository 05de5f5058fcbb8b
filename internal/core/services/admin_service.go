package services

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

type AdminService struct {
	userRepo   ports.UserRepository
	authzSvc   ports.AuthorizationService
	changefeed ports.ChangefeedService
}

var _ ports.AdminService = (*AdminService)(nil)

func NewAdminService(
	userRepo ports.UserRepository,
	authzSvc ports.AuthorizationService,
	changefeed ports.ChangefeedService,
) ports.AdminService {
	return &AdminService{
		userRepo:   userRepo,
		authzSvc:   authzSvc,
		changefeed: changefeed,
	}
}

func (s *AdminService) ListUsers(ctx context.Context, actorID uuid.UUID) ([]*domain.UserSummary, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	return s.userRepo.List(ctx)
}

func (s *AdminService) UpdateUserRole(ctx context.Context, actorID, userID uuid.UUID, role domain.Role) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if !domain.IsValidRole(role) {
		return apperrors.ErrInvalidRole
	}
	// Admins cannot demote themselves; it would strand the deployment
	// without an administrator.
	if userID == actorID && role != domain.RoleAdmin {
		return apperrors.ErrForbidden
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.SetRole(ctx, userID, role); err != nil {
		return err
	}

	s.changefeed.Notify(domain.TableUsers)
	return nil
}

func (s *AdminService) UpdateUserStatus(ctx context.Context, actorID, userID uuid.UUID, isActive bool) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if userID == actorID && !isActive {
		return apperrors.ErrForbidden
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.SetActive(ctx, userID, isActive); err != nil {
		return err
	}

	s.changefeed.Notify(domain.TableUsers)
	return nil
}

func (s *AdminService) ResetUserPassword(ctx context.Context, actorID, userID uuid.UUID) (string, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return "", err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return "", err
	}

	temporaryPassword, err := generateTemporaryPassword(12)
	if err != nil {
		return "", err
	}

	hashedPassword, err := domain.HashPassword(temporaryPassword)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return "", err
	}

	return temporaryPassword, nil
}

// CreateUser always fails. Account provisioning lives with the identity
// provider, not this service, and the API surface says so explicitly
// instead of returning a 404.
func (s *AdminService) CreateUser(ctx context.Context, actorID uuid.UUID) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return apperrors.NewUnsupportedActionError("user creation is handled by the identity provider")
}

func (s *AdminService) requireAdmin(ctx context.Context, actorID uuid.UUID) error {
	allowed, err := s.authzSvc.Can(ctx, actorID, "users:manage")
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.ErrForbidden
	}
	return nil
}

func generateTemporaryPassword(length int) (string, error) {
	const upper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	const lower = "abcdefghijklmnopqrstuvwxyz"
	const digits = "0123456789"
	const all = upper + lower + digits

	if length < 8 {
		length = 8
	}

	password := make([]byte, length)

	sets := []string{upper, lower, digits}
	for i := 0; i < len(sets); i++ {
		char, err := randomChar(sets[i])
		if err != nil {
			return "", err
		}
		password[i] = char
	}

	for i := len(sets); i < length; i++ {
		char, err := randomChar(all)
		if err != nil {
			return "", err
		}
		password[i] = char
	}

	for i := len(password) - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := int(jBig.Int64())
		password[i], password[j] = password[j], password[i]
	}

	return string(password), nil
}

func randomChar(source string) (byte, error) {
	max := big.NewInt(int64(len(source)))
	index, err := rand.Int(rand.Reader, max)
	if err != nil {
		return 0, err
	}
	return source[index.Int64()], nil
}
