package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
)

// TicketRepository is the secondary port for ticket persistence. Reads
// return tickets with their progress updates attached; consumers re-sort
// updates themselves, no ordering is promised here.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	List(ctx context.Context) ([]*domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProgressRepository persists append-only progress updates.
type ProgressRepository interface {
	Create(ctx context.Context, update *domain.ProgressUpdate) (*domain.ProgressUpdate, error)
	ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]*domain.ProgressUpdate, error)
}

// TechnicianRepository persists roster entries.
type TechnicianRepository interface {
	Create(ctx context.Context, technician *domain.Technician) (*domain.Technician, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Technician, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Technician, error)
	Update(ctx context.Context, technician *domain.Technician) (*domain.Technician, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository persists user profiles and role assignments.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.UserSummary, error)
	SetRole(ctx context.Context, userID uuid.UUID, role domain.Role) error
	SetActive(ctx context.Context, userID uuid.UUID, isActive bool) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error
}

// SettingsRepository is the remote tier of the settings configuration.
type SettingsRepository interface {
	Get(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
	GetDropdown(ctx context.Context, name string) (domain.DropdownSet, error)
	SaveDropdown(ctx context.Context, set domain.DropdownSet) error
	ListDropdowns(ctx context.Context) ([]domain.DropdownSet, error)
}

// SettingsCache is the fast local tier of the settings configuration; "ok"
// reports whether the key was present.
type SettingsCache interface {
	Get(ctx context.Context) (domain.Settings, bool, error)
	Put(ctx context.Context, settings domain.Settings) error
	GetDropdown(ctx context.Context, name string) (domain.DropdownSet, bool, error)
	PutDropdown(ctx context.Context, set domain.DropdownSet) error
}

// ReportRepository serves the aggregate queries behind summary exports and
// the statistics endpoint.
type ReportRepository interface {
	StatusCounts(ctx context.Context) ([]domain.StatusCount, error)
	CategoryPerformance(ctx context.Context) ([]domain.CategoryPerformance, error)
	DailyTraffic(ctx context.Context, days int) ([]domain.TrafficPoint, error)
	TotalTickets(ctx context.Context) (int64, error)
}

// TransactionManager defines the port for running atomic operations.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventBroadcaster pushes change notifications to connected clients.
type EventBroadcaster interface {
	Broadcast(event domain.ChangeEvent) error
}
