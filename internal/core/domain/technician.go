package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
)

// MitraIDPrefix marks partner (mitra) staff in the employee-id convention;
// everything else is internal staff.
const MitraIDPrefix = "MIT"

// Technician is a roster entry. Deactivation is a flag, never a delete.
type Technician struct {
	ID         uuid.UUID
	Name       string
	Phone      string
	Area       string
	EmployeeID string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// TechnicianParams holds the validated input for adding a technician.
type TechnicianParams struct {
	Name       string
	Phone      string
	Area       string
	EmployeeID string
}

// NewTechnician builds a valid, active technician.
func NewTechnician(params TechnicianParams) (*Technician, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, apperrors.ErrTechnicianNameRequired
	}
	return &Technician{
		ID:         uuid.New(),
		Name:       params.Name,
		Phone:      params.Phone,
		Area:       params.Area,
		EmployeeID: params.EmployeeID,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// IsMitra reports whether the technician is partner staff, by the
// employee-id prefix convention.
func (t *Technician) IsMitra() bool {
	return strings.HasPrefix(strings.ToUpper(t.EmployeeID), MitraIDPrefix)
}

// Deactivate flips the active flag off.
func (t *Technician) Deactivate() {
	t.IsActive = false
	now := time.Now().UTC()
	t.UpdatedAt = &now
}
