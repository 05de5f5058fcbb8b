package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
)

// TicketStatus represents the lifecycle state of a fault ticket.
type TicketStatus string

const (
	StatusOpen                TicketStatus = "OPEN"
	StatusAssigned            TicketStatus = "ASSIGNED"
	StatusOnProgress          TicketStatus = "ONPROGRESS"
	StatusPending             TicketStatus = "PENDING"
	StatusTemporary           TicketStatus = "TEMPORARY"
	StatusWaitingMaterial     TicketStatus = "WAITING_MATERIAL"
	StatusWaitingAccess       TicketStatus = "WAITING_ACCESS"
	StatusWaitingCoordination TicketStatus = "WAITING_COORDINATION"
	StatusClosed              TicketStatus = "CLOSED"
)

// AllStatuses lists every valid persisted status, in lifecycle order.
var AllStatuses = []TicketStatus{
	StatusOpen,
	StatusAssigned,
	StatusOnProgress,
	StatusPending,
	StatusTemporary,
	StatusWaitingMaterial,
	StatusWaitingAccess,
	StatusWaitingCoordination,
	StatusClosed,
}

// IsValidStatus reports whether s is a member of the persisted status set.
func IsValidStatus(s TicketStatus) bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Compliance captures whether a ticket met its TTR window.
type Compliance string

const (
	Comply    Compliance = "COMPLY"
	NotComply Compliance = "NOT COMPLY"
)

// UpdateSource tags who or what produced a progress update.
type UpdateSource string

const (
	SourceHD     UpdateSource = "hd"
	SourceAdmin  UpdateSource = "admin"
	SourceSystem UpdateSource = "system"
)

// Field length limits shared by validation and the schema.
const (
	MaxIncidentNumberLength = 64
	MaxSiteCodeLength       = 32
	MaxSiteNameLength       = 255
	MaxFreeTextLength       = 4000
)

// Ticket is a telecom network-fault (gangguan) record.
type Ticket struct {
	ID             uuid.UUID
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
	Remedy         string
	Obstacle       string

	JamOpen        time.Time
	TTRTargetHours float64
	// MaxJamClose is computed once at creation as JamOpen + TTRTargetHours
	// and never re-derived afterwards.
	MaxJamClose  time.Time
	TTRRealHours *float64
	// SisaTTRHours holds the remaining-hours value frozen at close time.
	// While the ticket is open this is advisory only; RemainingTTR recomputes
	// against the clock.
	SisaTTRHours *float64

	Status        TicketStatus
	TTRCompliance Compliance

	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time

	// ProgressUpdates is loaded alongside the ticket where derivations need
	// it. Ordering is not guaranteed by the store; consumers sort explicitly.
	ProgressUpdates []*ProgressUpdate
}

// TicketParams holds the validated input for creating a ticket.
type TicketParams struct {
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
	TTRTargetHours float64
	CreatedBy      uuid.UUID
}

// NewTicket builds a valid ticket. The initial status is ASSIGNED when at
// least one technician is attached at creation, otherwise OPEN.
func NewTicket(params TicketParams) (*Ticket, error) {
	if params.IncidentNumber == "" {
		return nil, apperrors.ErrIncidentNumberRequired
	}
	if params.SiteCode == "" {
		return nil, apperrors.ErrSiteCodeRequired
	}
	if params.TTRTargetHours <= 0 {
		return nil, apperrors.ErrInvalidTTRTarget
	}
	if params.JamOpen.IsZero() {
		return nil, apperrors.ErrJamOpenRequired
	}

	status := StatusOpen
	if len(params.Technicians) > 0 {
		status = StatusAssigned
	}

	return &Ticket{
		ID:             uuid.New(),
		IncidentNumber: params.IncidentNumber,
		SiteCode:       params.SiteCode,
		SiteName:       params.SiteName,
		DatekCode:      params.DatekCode,
		Location:       params.Location,
		Provider:       params.Provider,
		Category:       params.Category,
		DistanceRange:  params.DistanceRange,
		Team:           params.Team,
		Technicians:    params.Technicians,
		Cause:          params.Cause,
		JamOpen:        params.JamOpen,
		TTRTargetHours: params.TTRTargetHours,
		MaxJamClose:    params.JamOpen.Add(hoursToDuration(params.TTRTargetHours)),
		Status:         status,
		TTRCompliance:  Comply,
		CreatedBy:      params.CreatedBy,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// IsClosed reports whether the ticket has reached its terminal state.
func (t *Ticket) IsClosed() bool {
	return t.Status == StatusClosed
}

// HasTechnicians reports whether at least one technician is attached.
func (t *Ticket) HasTechnicians() bool {
	return len(t.Technicians) > 0
}

// ApplyStatus sets a new persisted status. Closing the ticket freezes
// TTRRealHours, SisaTTRHours and TTRCompliance against closedAt; reopening a
// closed ticket is rejected.
func (t *Ticket) ApplyStatus(newStatus TicketStatus, closedAt time.Time) error {
	if !IsValidStatus(newStatus) {
		return apperrors.ErrInvalidStatus
	}
	if t.IsClosed() && newStatus != StatusClosed {
		return apperrors.ErrTicketAlreadyClosed
	}

	t.Status = newStatus
	now := time.Now().UTC()
	t.UpdatedAt = &now

	if newStatus == StatusClosed && t.TTRRealHours == nil {
		t.freezeTTR(closedAt)
	}
	return nil
}

// freezeTTR records the close-time TTR values that stay authoritative for
// the rest of the ticket's life.
func (t *Ticket) freezeTTR(closedAt time.Time) {
	real := closedAt.Sub(t.JamOpen).Hours()
	sisa := t.MaxJamClose.Sub(closedAt).Hours()
	t.TTRRealHours = &real
	t.SisaTTRHours = &sisa
	if closedAt.After(t.MaxJamClose) {
		t.TTRCompliance = NotComply
	} else {
		t.TTRCompliance = Comply
	}
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// ProgressUpdate is an immutable append-only event attached to a ticket.
type ProgressUpdate struct {
	ID                int64
	TicketID          uuid.UUID
	Timestamp         time.Time
	Message           string
	StatusAfterUpdate *TicketStatus
	Attachments       []string
	Source            UpdateSource
	AuthorID          uuid.UUID
	CreatedAt         time.Time
}

// ProgressUpdateParams holds the validated input for appending an update.
type ProgressUpdateParams struct {
	TicketID          uuid.UUID
	Timestamp         time.Time
	Message           string
	StatusAfterUpdate *TicketStatus
	Attachments       []string
	Source            UpdateSource
	AuthorID          uuid.UUID
}

// NewProgressUpdate builds a valid progress update.
func NewProgressUpdate(params ProgressUpdateParams) (*ProgressUpdate, error) {
	if params.TicketID == uuid.Nil {
		return nil, apperrors.ErrTicketIDRequired
	}
	if params.Message == "" {
		return nil, apperrors.ErrUpdateMessageRequired
	}
	if params.StatusAfterUpdate != nil && !IsValidStatus(*params.StatusAfterUpdate) {
		return nil, apperrors.ErrInvalidStatus
	}

	ts := params.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	source := params.Source
	if source == "" {
		source = SourceSystem
	}

	return &ProgressUpdate{
		TicketID:          params.TicketID,
		Timestamp:         ts,
		Message:           params.Message,
		StatusAfterUpdate: params.StatusAfterUpdate,
		Attachments:       params.Attachments,
		Source:            source,
		AuthorID:          params.AuthorID,
		CreatedAt:         time.Now().UTC(),
	}, nil
}
