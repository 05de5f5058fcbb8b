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

const ticketColumns = `
	id, incident_number, site_code, site_name, datek_code, location,
	provider, category, distance_range, team, technicians,
	cause, remedy, obstacle,
	jam_open, ttr_target_hours, max_jam_close, ttr_real_hours, sisa_ttr_hours,
	status, ttr_compliance, created_by, created_at, updated_at`

// TicketRepository is the secondary adapter for ticket persistence.
type TicketRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	var realHours, sisaHours pgtype.Float8
	var updatedAt pgtype.Timestamptz

	err := row.Scan(
		&t.ID, &t.IncidentNumber, &t.SiteCode, &t.SiteName, &t.DatekCode, &t.Location,
		&t.Provider, &t.Category, &t.DistanceRange, &t.Team, &t.Technicians,
		&t.Cause, &t.Remedy, &t.Obstacle,
		&t.JamOpen, &t.TTRTargetHours, &t.MaxJamClose, &realHours, &sisaHours,
		&t.Status, &t.TTRCompliance, &t.CreatedBy, &t.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if realHours.Valid {
		t.TTRRealHours = &realHours.Float64
	}
	if sisaHours.Valid {
		t.SisaTTRHours = &sisaHours.Float64
	}
	if updatedAt.Valid {
		t.UpdatedAt = &updatedAt.Time
	}
	return &t, nil
}

// Create persists a new ticket.
func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	const query = `
	INSERT INTO tickets (
		id, incident_number, site_code, site_name, datek_code, location,
		provider, category, distance_range, team, technicians,
		cause, remedy, obstacle,
		jam_open, ttr_target_hours, max_jam_close,
		status, ttr_compliance, created_by, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		$12, $13, $14, $15, $16, $17, $18, $19, $20, $21
	)
	RETURNING ` + ticketColumns

	db := GetDBTX(ctx, r.pool)
	row := db.QueryRow(ctx, query,
		ticket.ID, ticket.IncidentNumber, ticket.SiteCode, ticket.SiteName,
		ticket.DatekCode, ticket.Location,
		ticket.Provider, ticket.Category, ticket.DistanceRange, ticket.Team,
		ticket.Technicians,
		ticket.Cause, ticket.Remedy, ticket.Obstacle,
		ticket.JamOpen, ticket.TTRTargetHours, ticket.MaxJamClose,
		ticket.Status, ticket.TTRCompliance, ticket.CreatedBy, ticket.CreatedAt,
	)
	created, err := scanTicket(row)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves one ticket with its progress updates attached.
func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	db := GetDBTX(ctx, r.pool)
	ticket, err := scanTicket(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	updates, err := r.loadProgress(ctx, db, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	ticket.ProgressUpdates = updates[id]
	return ticket, nil
}

// List retrieves every ticket with progress updates attached. Filtering and
// ordering happen in the domain layer, not here.
func (r *TicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets`

	db := GetDBTX(ctx, r.pool)
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	var ids []uuid.UUID
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return tickets, nil
	}
	updates, err := r.loadProgress(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range tickets {
		t.ProgressUpdates = updates[t.ID]
	}
	return tickets, nil
}

// Update persists the mutable ticket fields.
func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	const query = `
	UPDATE tickets SET
		site_name = $2, datek_code = $3, location = $4,
		provider = $5, category = $6, distance_range = $7, team = $8,
		technicians = $9, cause = $10, remedy = $11, obstacle = $12,
		ttr_real_hours = $13, sisa_ttr_hours = $14,
		status = $15, ttr_compliance = $16, updated_at = $17
	WHERE id = $1
	RETURNING ` + ticketColumns

	var realHours, sisaHours pgtype.Float8
	if ticket.TTRRealHours != nil {
		realHours = pgtype.Float8{Float64: *ticket.TTRRealHours, Valid: true}
	}
	if ticket.SisaTTRHours != nil {
		sisaHours = pgtype.Float8{Float64: *ticket.SisaTTRHours, Valid: true}
	}
	var updatedAt pgtype.Timestamptz
	if ticket.UpdatedAt != nil {
		updatedAt = pgtype.Timestamptz{Time: *ticket.UpdatedAt, Valid: true}
	}

	db := GetDBTX(ctx, r.pool)
	row := db.QueryRow(ctx, query,
		ticket.ID,
		ticket.SiteName, ticket.DatekCode, ticket.Location,
		ticket.Provider, ticket.Category, ticket.DistanceRange, ticket.Team,
		ticket.Technicians, ticket.Cause, ticket.Remedy, ticket.Obstacle,
		realHours, sisaHours,
		ticket.Status, ticket.TTRCompliance, updatedAt,
	)
	updated, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	updated.ProgressUpdates = ticket.ProgressUpdates
	return updated, nil
}

// Delete removes a ticket; its progress updates go with it via the cascade.
func (r *TicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDBTX(ctx, r.pool)
	cmd, err := db.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) loadProgress(ctx context.Context, db DBTX, ticketIDs []uuid.UUID) (map[uuid.UUID][]*domain.ProgressUpdate, error) {
	const query = `
	SELECT id, ticket_id, occurred_at, message, status_after_update,
	       attachments, source, author_id, created_at
	FROM progress_updates
	WHERE ticket_id = ANY($1)`

	rows, err := db.Query(ctx, query, ticketIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]*domain.ProgressUpdate)
	for rows.Next() {
		u, err := scanProgressUpdate(rows)
		if err != nil {
			return nil, err
		}
		result[u.TicketID] = append(result[u.TicketID], u)
	}
	return result, rows.Err()
}
