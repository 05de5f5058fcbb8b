package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
)

// AuthService defines the port for authentication business logic. There is
// no self-service registration; accounts are provisioned out of band.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// AuthorizationService defines the port for checking user permissions.
type AuthorizationService interface {
	Can(ctx context.Context, userID uuid.UUID, permission string) (bool, error)
	RoleOf(ctx context.Context, userID uuid.UUID) (domain.Role, error)
}

// TicketView bundles a ticket with the fields derived at read time.
type TicketView struct {
	Ticket        *domain.Ticket
	DisplayStatus domain.TicketStatus
	RemainingTTR  domain.TTRSnapshot
	Band          domain.TTRBand
	DueSoon       bool
	Related       bool
}

// CreateTicketParams defines the required input for creating a new ticket.
type CreateTicketParams struct {
	IncidentNumber string
	SiteCode       string
	SiteName       string
	DatekCode      string
	Location       string
	Provider       string
	Category       string
	DistanceRange  string
	Team           string
	Technicians    []string
	Cause          string
	JamOpen        time.Time
	// TTRTargetHours overrides the category target when positive.
	TTRTargetHours float64
	ActorID        uuid.UUID
}

// UpdateTicketParams defines the input for editing ticket fields.
type UpdateTicketParams struct {
	TicketID      uuid.UUID
	SiteName      *string
	DatekCode     *string
	Location      *string
	Provider      *string
	Category      *string
	DistanceRange *string
	Team          *string
	Technicians   []string
	Cause         *string
	Remedy        *string
	Obstacle      *string
	ActorID       uuid.UUID
}

// UpdateStatusParams defines the input for changing a ticket's status.
type UpdateStatusParams struct {
	TicketID uuid.UUID
	Status   domain.TicketStatus
	ActorID  uuid.UUID
}

// AddProgressParams defines the input for appending a progress update.
type AddProgressParams struct {
	TicketID          uuid.UUID
	Timestamp         time.Time
	Message           string
	StatusAfterUpdate *domain.TicketStatus
	Attachments       []string
	Source            domain.UpdateSource
	ActorID           uuid.UUID
}

// ListTicketsParams defines the input for listing tickets.
type ListTicketsParams struct {
	ViewerID uuid.UUID
	Filter   domain.TicketFilter
	Sort     domain.TicketSort
	Page     int
	PageSize int
}

// TicketPage is one page of a filtered, sorted listing.
type TicketPage struct {
	Items    []*TicketView
	Total    int
	Page     int
	PageSize int
}

// TicketService defines the core business operations for managing tickets.
type TicketService interface {
	CreateTicket(ctx context.Context, params CreateTicketParams) (*domain.Ticket, error)
	GetTicket(ctx context.Context, ticketID, viewerID uuid.UUID) (*TicketView, error)
	ListTickets(ctx context.Context, params ListTicketsParams) (*TicketPage, error)
	UpdateTicket(ctx context.Context, params UpdateTicketParams) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, params UpdateStatusParams) (*domain.Ticket, error)
	DeleteTicket(ctx context.Context, ticketID, actorID uuid.UUID) error
	AddProgressUpdate(ctx context.Context, params AddProgressParams) (*domain.ProgressUpdate, error)
	ListProgressUpdates(ctx context.Context, ticketID, viewerID uuid.UUID) ([]*domain.ProgressUpdate, error)
}

// TechnicianParams mirror domain inputs at the service boundary.
type SaveTechnicianParams struct {
	TechnicianID *uuid.UUID // nil on create
	Name         string
	Phone        string
	Area         string
	EmployeeID   string
	ActorID      uuid.UUID
}

// TechnicianService defines roster administration.
type TechnicianService interface {
	ListTechnicians(ctx context.Context, viewerID uuid.UUID, activeOnly bool) ([]*domain.Technician, error)
	CreateTechnician(ctx context.Context, params SaveTechnicianParams) (*domain.Technician, error)
	UpdateTechnician(ctx context.Context, params SaveTechnicianParams) (*domain.Technician, error)
	DeactivateTechnician(ctx context.Context, technicianID, actorID uuid.UUID) error
	DeleteTechnician(ctx context.Context, technicianID, actorID uuid.UUID) error
	// ResetToDefault always fails: bulk resets against the hosted roster are
	// deliberately unsupported.
	ResetToDefault(ctx context.Context, actorID uuid.UUID) error
}

// AdminService defines the port for admin-only operations.
type AdminService interface {
	ListUsers(ctx context.Context, actorID uuid.UUID) ([]*domain.UserSummary, error)
	UpdateUserRole(ctx context.Context, actorID, userID uuid.UUID, role domain.Role) error
	UpdateUserStatus(ctx context.Context, actorID, userID uuid.UUID, isActive bool) error
	ResetUserPassword(ctx context.Context, actorID, userID uuid.UUID) (string, error)
	// CreateUser always fails: provisioning requires elevated credentials
	// this service does not hold.
	CreateUser(ctx context.Context, actorID uuid.UUID) error
}

// SettingsService resolves and updates the tiered configuration.
type SettingsService interface {
	Resolve(ctx context.Context) (domain.Settings, error)
	UpdateThresholds(ctx context.Context, actorID uuid.UUID, thresholds domain.Thresholds) (domain.Settings, error)
	UpdateCategoryTargets(ctx context.Context, actorID uuid.UUID, targets map[string]float64) (domain.Settings, error)
	Dropdown(ctx context.Context, name string) (domain.DropdownSet, error)
	UpdateDropdown(ctx context.Context, actorID uuid.UUID, set domain.DropdownSet) (domain.DropdownSet, error)
}

// ReportService builds aggregate overviews and spreadsheet exports.
type ReportService interface {
	Overview(ctx context.Context, viewerID uuid.UUID, days int) (*domain.ReportOverview, error)
	BuildRawExport(ctx context.Context, viewerID uuid.UUID, filter domain.TicketFilter) (*excelize.File, error)
	BuildSummaryExport(ctx context.Context, viewerID uuid.UUID, days int) (*excelize.File, error)
}

// UserLookupService provides lightweight user details for display.
type UserLookupService interface {
	GetUserInfo(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.UserInfo, error)
}

// ChangefeedService assigns per-table sequence numbers and fans change
// notifications out to the broadcaster.
type ChangefeedService interface {
	Notify(table domain.ChangeTable)
	LastSeq(table domain.ChangeTable) uint64
}
