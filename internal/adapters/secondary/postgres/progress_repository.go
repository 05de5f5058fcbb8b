package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

// ProgressRepository persists append-only progress updates.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ProgressRepository = (*ProgressRepository)(nil)

// NewProgressRepository creates a new progress update repository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

func scanProgressUpdate(row pgx.Row) (*domain.ProgressUpdate, error) {
	var u domain.ProgressUpdate
	var status pgtype.Text
	var authorID pgtype.UUID

	err := row.Scan(
		&u.ID, &u.TicketID, &u.Timestamp, &u.Message, &status,
		&u.Attachments, &u.Source, &authorID, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if status.Valid {
		s := domain.TicketStatus(status.String)
		u.StatusAfterUpdate = &s
	}
	if authorID.Valid {
		u.AuthorID = authorID.Bytes
	}
	return &u, nil
}

// Create appends one update. The bigserial id comes back from the insert.
func (r *ProgressRepository) Create(ctx context.Context, update *domain.ProgressUpdate) (*domain.ProgressUpdate, error) {
	const query = `
	INSERT INTO progress_updates (
		ticket_id, occurred_at, message, status_after_update,
		attachments, source, author_id, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, ticket_id, occurred_at, message, status_after_update,
	          attachments, source, author_id, created_at`

	var status pgtype.Text
	if update.StatusAfterUpdate != nil {
		status = pgtype.Text{String: string(*update.StatusAfterUpdate), Valid: true}
	}
	var authorID pgtype.UUID
	if update.AuthorID != uuid.Nil {
		authorID = pgtype.UUID{Bytes: update.AuthorID, Valid: true}
	}

	db := GetDBTX(ctx, r.pool)
	row := db.QueryRow(ctx, query,
		update.TicketID, update.Timestamp, update.Message, status,
		update.Attachments, update.Source, authorID, update.CreatedAt,
	)
	return scanProgressUpdate(row)
}

// ListByTicket returns a ticket's updates in insertion order.
func (r *ProgressRepository) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]*domain.ProgressUpdate, error) {
	const query = `
	SELECT id, ticket_id, occurred_at, message, status_after_update,
	       attachments, source, author_id, created_at
	FROM progress_updates
	WHERE ticket_id = $1
	ORDER BY id`

	db := GetDBTX(ctx, r.pool)
	rows, err := db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []*domain.ProgressUpdate
	for rows.Next() {
		u, err := scanProgressUpdate(rows)
		if err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}
