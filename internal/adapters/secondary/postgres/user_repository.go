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

// UserRepository persists user profiles and role assignments.
type UserRepository struct {
	pool *pgxpool.Pool
}

var _ ports.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, full_name, email, hashed_password, role, is_active, created_at, last_active_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var lastActive pgtype.Timestamptz

	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.HashedPassword,
		&u.Role, &u.IsActive, &u.CreatedAt, &lastActive)
	if err != nil {
		return nil, err
	}
	if lastActive.Valid {
		u.LastActiveAt = &lastActive.Time
	}
	return &u, nil
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
	INSERT INTO users (id, full_name, email, hashed_password, role, is_active, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + userColumns

	db := GetDBTX(ctx, r.pool)
	return scanUser(db.QueryRow(ctx, query,
		user.ID, user.FullName, user.Email, user.HashedPassword,
		user.Role, user.IsActive, user.CreatedAt,
	))
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	db := GetDBTX(ctx, r.pool)
	u, err := scanUser(db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	db := GetDBTX(ctx, r.pool)
	u, err := scanUser(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns the admin-facing user summaries.
func (r *UserRepository) List(ctx context.Context) ([]*domain.UserSummary, error) {
	const query = `
	SELECT id, full_name, email, role, is_active, created_at, last_active_at
	FROM users ORDER BY full_name`

	db := GetDBTX(ctx, r.pool)
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.UserSummary
	for rows.Next() {
		var u domain.UserSummary
		var lastActive pgtype.Timestamptz
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.Role,
			&u.IsActive, &u.CreatedAt, &lastActive); err != nil {
			return nil, err
		}
		if lastActive.Valid {
			u.LastActiveAt = &lastActive.Time
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// SetRole updates a user's role.
func (r *UserRepository) SetRole(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	db := GetDBTX(ctx, r.pool)
	cmd, err := db.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, userID, role)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// SetActive updates a user's active flag.
func (r *UserRepository) SetActive(ctx context.Context, userID uuid.UUID, isActive bool) error {
	db := GetDBTX(ctx, r.pool)
	cmd, err := db.Exec(ctx, `UPDATE users SET is_active = $2 WHERE id = $1`, userID, isActive)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	db := GetDBTX(ctx, r.pool)
	cmd, err := db.Exec(ctx, `UPDATE users SET hashed_password = $2 WHERE id = $1`, userID, hashedPassword)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
