package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

// TechnicianService implements roster administration.
type TechnicianService struct {
	technicianRepo ports.TechnicianRepository
	authzSvc       ports.AuthorizationService
	changefeed     ports.ChangefeedService
}

var _ ports.TechnicianService = (*TechnicianService)(nil)

// NewTechnicianService creates a new technician service.
func NewTechnicianService(
	technicianRepo ports.TechnicianRepository,
	authzSvc ports.AuthorizationService,
	changefeed ports.ChangefeedService,
) ports.TechnicianService {
	return &TechnicianService{
		technicianRepo: technicianRepo,
		authzSvc:       authzSvc,
		changefeed:     changefeed,
	}
}

func (s *TechnicianService) ListTechnicians(ctx context.Context, viewerID uuid.UUID, activeOnly bool) ([]*domain.Technician, error) {
	allowed, err := s.authzSvc.Can(ctx, viewerID, "technicians:read")
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.ErrForbidden
	}

	return s.technicianRepo.List(ctx, activeOnly)
}

func (s *TechnicianService) CreateTechnician(ctx context.Context, params ports.SaveTechnicianParams) (*domain.Technician, error) {
	if err := s.requireManage(ctx, params.ActorID); err != nil {
		return nil, err
	}

	technician, err := domain.NewTechnician(domain.TechnicianParams{
		Name:       params.Name,
		Phone:      params.Phone,
		Area:       params.Area,
		EmployeeID: params.EmployeeID,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.technicianRepo.Create(ctx, technician)
	if err != nil {
		return nil, err
	}

	s.changefeed.Notify(domain.TableTechnicians)
	return created, nil
}

func (s *TechnicianService) UpdateTechnician(ctx context.Context, params ports.SaveTechnicianParams) (*domain.Technician, error) {
	if err := s.requireManage(ctx, params.ActorID); err != nil {
		return nil, err
	}
	if params.TechnicianID == nil {
		return nil, apperrors.ErrTechnicianNotFound
	}
	if params.Name == "" {
		return nil, apperrors.ErrTechnicianNameRequired
	}

	technician, err := s.technicianRepo.GetByID(ctx, *params.TechnicianID)
	if err != nil {
		return nil, err
	}

	technician.Name = params.Name
	technician.Phone = params.Phone
	technician.Area = params.Area
	technician.EmployeeID = params.EmployeeID
	now := time.Now().UTC()
	technician.UpdatedAt = &now

	updated, err := s.technicianRepo.Update(ctx, technician)
	if err != nil {
		return nil, err
	}

	s.changefeed.Notify(domain.TableTechnicians)
	return updated, nil
}

// DeactivateTechnician flips the active flag; the row and its history stay.
func (s *TechnicianService) DeactivateTechnician(ctx context.Context, technicianID, actorID uuid.UUID) error {
	if err := s.requireManage(ctx, actorID); err != nil {
		return err
	}

	technician, err := s.technicianRepo.GetByID(ctx, technicianID)
	if err != nil {
		return err
	}

	technician.Deactivate()
	if _, err := s.technicianRepo.Update(ctx, technician); err != nil {
		return err
	}

	s.changefeed.Notify(domain.TableTechnicians)
	return nil
}

func (s *TechnicianService) DeleteTechnician(ctx context.Context, technicianID, actorID uuid.UUID) error {
	if err := s.requireManage(ctx, actorID); err != nil {
		return err
	}

	if err := s.technicianRepo.Delete(ctx, technicianID); err != nil {
		return err
	}

	s.changefeed.Notify(domain.TableTechnicians)
	return nil
}

// ResetToDefault always fails. The shared roster is the source of truth;
// bulk-reverting it to a seed list would destroy live assignments.
func (s *TechnicianService) ResetToDefault(ctx context.Context, actorID uuid.UUID) error {
	if err := s.requireManage(ctx, actorID); err != nil {
		return err
	}
	return apperrors.NewUnsupportedActionError("resetting the shared roster is not supported")
}

func (s *TechnicianService) requireManage(ctx context.Context, actorID uuid.UUID) error {
	allowed, err := s.authzSvc.Can(ctx, actorID, "technicians:manage")
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.ErrForbidden
	}
	return nil
}
