package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

// TechnicianRepository persists roster entries.
type TechnicianRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TechnicianRepository = (*TechnicianRepository)(nil)

// NewTechnicianRepository creates a new technician repository.
func NewTechnicianRepository(pool *pgxpool.Pool) *TechnicianRepository {
	return &TechnicianRepository{pool: pool}
}

func scanTechnician(row pgx.Row) (*domain.Technician, error) {
	var t domain.Technician
	var updatedAt pgtype.Timestamptz

	err := row.Scan(&t.ID, &t.Name, &t.Phone, &t.Area, &t.EmployeeID,
		&t.IsActive, &t.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t.UpdatedAt = &updatedAt.Time
	}
	return &t, nil
}

// Create persists a new roster entry.
func (r *TechnicianRepository) Create(ctx context.Context, technician *domain.Technician) (*domain.Technician, error) {
	const query = `
	INSERT INTO technicians (id, name, phone, area, employee_id, is_active, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, name, phone, area, employee_id, is_active, created_at, updated_at`

	db := GetDBTX(ctx, r.pool)
	return scanTechnician(db.QueryRow(ctx, query,
		technician.ID, technician.Name, technician.Phone, technician.Area,
		technician.EmployeeID, technician.IsActive, technician.CreatedAt,
	))
}

// GetByID retrieves one technician.
func (r *TechnicianRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Technician, error) {
	const query = `
	SELECT id, name, phone, area, employee_id, is_active, created_at, updated_at
	FROM technicians WHERE id = $1`

	db := GetDBTX(ctx, r.pool)
	t, err := scanTechnician(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTechnicianNotFound
		}
		return nil, err
	}
	return t, nil
}

// List retrieves the roster, optionally limited to active entries.
func (r *TechnicianRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Technician, error) {
	query := `
	SELECT id, name, phone, area, employee_id, is_active, created_at, updated_at
	FROM technicians`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	db := GetDBTX(ctx, r.pool)
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var technicians []*domain.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, err
		}
		technicians = append(technicians, t)
	}
	return technicians, rows.Err()
}

// Update persists changes to a roster entry.
func (r *TechnicianRepository) Update(ctx context.Context, technician *domain.Technician) (*domain.Technician, error) {
	const query = `
	UPDATE technicians SET
		name = $2, phone = $3, area = $4, employee_id = $5,
		is_active = $6, updated_at = $7
	WHERE id = $1
	RETURNING id, name, phone, area, employee_id, is_active, created_at, updated_at`

	var updatedAt pgtype.Timestamptz
	if technician.UpdatedAt != nil {
		updatedAt = pgtype.Timestamptz{Time: *technician.UpdatedAt, Valid: true}
	}

	db := GetDBTX(ctx, r.pool)
	t, err := scanTechnician(db.QueryRow(ctx, query,
		technician.ID, technician.Name, technician.Phone, technician.Area,
		technician.EmployeeID, technician.IsActive, updatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTechnicianNotFound
		}
		return nil, err
	}
	return t, nil
}

// Delete removes a roster entry permanently.
func (r *TechnicianRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDBTX(ctx, r.pool)
	cmd, err := db.Exec(ctx, `DELETE FROM technicians WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrTechnicianNotFound
	}
	return nil
}
