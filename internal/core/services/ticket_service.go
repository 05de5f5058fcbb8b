package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

// TicketService implements business logic for gangguan ticket management.
type TicketService struct {
	ticketRepo   ports.TicketRepository
	progressRepo ports.ProgressRepository
	authzSvc     ports.AuthorizationService
	settingsSvc  ports.SettingsService
	lookupSvc    ports.UserLookupService
	changefeed   ports.ChangefeedService
	now          func() time.Time
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates a new ticket service.
func NewTicketService(
	ticketRepo ports.TicketRepository,
	progressRepo ports.ProgressRepository,
	authzSvc ports.AuthorizationService,
	settingsSvc ports.SettingsService,
	lookupSvc ports.UserLookupService,
	changefeed ports.ChangefeedService,
) *TicketService {
	return &TicketService{
		ticketRepo:   ticketRepo,
		progressRepo: progressRepo,
		authzSvc:     authzSvc,
		settingsSvc:  settingsSvc,
		lookupSvc:    lookupSvc,
		changefeed:   changefeed,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Test hook.
func (s *TicketService) WithClock(now func() time.Time) *TicketService {
	s.now = now
	return s
}

// CreateTicket handles intake of a new fault ticket. The TTR target falls
// back to the configured per-category target when the caller does not
// provide one; the deadline is fixed here and never re-derived.
func (s *TicketService) CreateTicket(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	canCreate, err := s.authzSvc.Can(ctx, params.ActorID, "tickets:create")
	if err != nil {
		return nil, err
	}
	if !canCreate {
		return nil, apperrors.ErrForbidden
	}

	target := params.TTRTargetHours
	if target <= 0 {
		settings, err := s.settingsSvc.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		target = settings.TargetHoursFor(params.Category)
	}

	jamOpen := params.JamOpen
	if jamOpen.IsZero() {
		jamOpen = s.now()
	}

	ticket, err := domain.NewTicket(domain.TicketParams{
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
		JamOpen:        jamOpen,
		TTRTargetHours: target,
		CreatedBy:      params.ActorID,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.ticketRepo.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.changefeed.Notify(domain.TableTickets)
	return created, nil
}

// GetTicket retrieves one ticket with its derived read-time fields.
func (s *TicketService) GetTicket(ctx context.Context, ticketID, viewerID uuid.UUID) (*ports.TicketView, error) {
	canRead, err := s.authzSvc.Can(ctx, viewerID, "tickets:read")
	if err != nil {
		return nil, err
	}
	if !canRead {
		return nil, apperrors.ErrForbidden
	}

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsSvc.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.ticketRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	view := s.buildView(ticket, settings, domain.IsRelatedIncident(ticket, all))
	return view, nil
}

// ListTickets retrieves the filtered, sorted, paginated listing. Filtering
// runs over the full fetched set; predicates are conjunctive and
// order-independent.
func (s *TicketService) ListTickets(ctx context.Context, params ports.ListTicketsParams) (*ports.TicketPage, error) {
	canRead, err := s.authzSvc.Can(ctx, params.ViewerID, "tickets:read")
	if err != nil {
		return nil, err
	}
	if !canRead {
		return nil, apperrors.ErrForbidden
	}

	tickets, err := s.ticketRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsSvc.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	fctx := domain.FilterContext{
		RelatedFlags: domain.RelatedIncidentFlags(tickets),
	}
	fctx.CreatorNames, err = s.creatorNames(ctx, tickets)
	if err != nil {
		return nil, err
	}

	filtered := domain.FilterTickets(tickets, params.Filter, fctx)
	domain.SortTickets(filtered, params.Sort, s.now())

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 25
	}

	items := domain.Paginate(filtered, page, pageSize)
	views := make([]*ports.TicketView, 0, len(items))
	for _, t := range items {
		views = append(views, s.buildView(t, settings, fctx.RelatedFlags[t.ID.String()]))
	}

	return &ports.TicketPage{
		Items:    views,
		Total:    len(filtered),
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// UpdateTicket edits descriptive ticket fields. It never touches the open
// time, the deadline, or the frozen TTR values.
func (s *TicketService) UpdateTicket(ctx context.Context, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	canUpdate, err := s.authzSvc.Can(ctx, params.ActorID, "tickets:update")
	if err != nil {
		return nil, err
	}
	if !canUpdate {
		return nil, apperrors.ErrForbidden
	}

	ticket, err := s.ticketRepo.GetByID(ctx, params.TicketID)
	if err != nil {
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&ticket.SiteName, params.SiteName)
	applyString(&ticket.DatekCode, params.DatekCode)
	applyString(&ticket.Location, params.Location)
	applyString(&ticket.Provider, params.Provider)
	applyString(&ticket.Category, params.Category)
	applyString(&ticket.DistanceRange, params.DistanceRange)
	applyString(&ticket.Team, params.Team)
	applyString(&ticket.Cause, params.Cause)
	applyString(&ticket.Remedy, params.Remedy)
	applyString(&ticket.Obstacle, params.Obstacle)
	if params.Technicians != nil {
		ticket.Technicians = params.Technicians
	}
	now := s.now()
	ticket.UpdatedAt = &now

	updated, err := s.ticketRepo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.changefeed.Notify(domain.TableTickets)
	return updated, nil
}

// UpdateStatus changes a ticket's persisted status. Closing freezes the TTR
// values as of now.
func (s *TicketService) UpdateStatus(ctx context.Context, params ports.UpdateStatusParams) (*domain.Ticket, error) {
	canUpdate, err := s.authzSvc.Can(ctx, params.ActorID, "tickets:update")
	if err != nil {
		return nil, err
	}
	if !canUpdate {
		return nil, apperrors.ErrForbidden
	}

	ticket, err := s.ticketRepo.GetByID(ctx, params.TicketID)
	if err != nil {
		return nil, err
	}

	if err := ticket.ApplyStatus(params.Status, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.ticketRepo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.changefeed.Notify(domain.TableTickets)
	return updated, nil
}

// DeleteTicket removes a ticket permanently. There is no tombstone.
func (s *TicketService) DeleteTicket(ctx context.Context, ticketID, actorID uuid.UUID) error {
	canDelete, err := s.authzSvc.Can(ctx, actorID, "tickets:delete")
	if err != nil {
		return err
	}
	if !canDelete {
		return apperrors.ErrForbidden
	}

	if err := s.ticketRepo.Delete(ctx, ticketID); err != nil {
		return err
	}

	s.changefeed.Notify(domain.TableTickets)
	return nil
}

// AddProgressUpdate appends an immutable update. When it carries a status,
// the ticket's persisted status changes in a second, independent write:
// there is no atomicity between the two, a failure after the first leaves
// the update in place without the status change.
func (s *TicketService) AddProgressUpdate(ctx context.Context, params ports.AddProgressParams) (*domain.ProgressUpdate, error) {
	canUpdate, err := s.authzSvc.Can(ctx, params.ActorID, "progress:create")
	if err != nil {
		return nil, err
	}
	if !canUpdate {
		return nil, apperrors.ErrForbidden
	}

	ticket, err := s.ticketRepo.GetByID(ctx, params.TicketID)
	if err != nil {
		return nil, err
	}

	update, err := domain.NewProgressUpdate(domain.ProgressUpdateParams{
		TicketID:          params.TicketID,
		Timestamp:         params.Timestamp,
		Message:           params.Message,
		StatusAfterUpdate: params.StatusAfterUpdate,
		Attachments:       params.Attachments,
		Source:            params.Source,
		AuthorID:          params.ActorID,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.progressRepo.Create(ctx, update)
	if err != nil {
		return nil, err
	}
	s.changefeed.Notify(domain.TableProgress)

	if params.StatusAfterUpdate != nil && *params.StatusAfterUpdate != ticket.Status {
		if err := ticket.ApplyStatus(*params.StatusAfterUpdate, update.Timestamp); err != nil {
			return nil, err
		}
		if _, err := s.ticketRepo.Update(ctx, ticket); err != nil {
			return nil, err
		}
		s.changefeed.Notify(domain.TableTickets)
	}

	return created, nil
}

// ListProgressUpdates returns a ticket's updates. No ordering is promised;
// callers sort by timestamp (and id) themselves.
func (s *TicketService) ListProgressUpdates(ctx context.Context, ticketID, viewerID uuid.UUID) ([]*domain.ProgressUpdate, error) {
	canRead, err := s.authzSvc.Can(ctx, viewerID, "tickets:read")
	if err != nil {
		return nil, err
	}
	if !canRead {
		return nil, apperrors.ErrForbidden
	}

	if _, err := s.ticketRepo.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}

	return s.progressRepo.ListByTicket(ctx, ticketID)
}

func (s *TicketService) buildView(t *domain.Ticket, settings domain.Settings, related bool) *ports.TicketView {
	snap := t.TTRAt(s.now())
	return &ports.TicketView{
		Ticket:        t,
		DisplayStatus: t.DisplayStatus(),
		RemainingTTR:  snap,
		Band:          domain.ClassifyTTR(snap.RemainingHours, settings.Thresholds),
		DueSoon:       domain.IsDueSoon(snap.RemainingHours, settings.Thresholds),
		Related:       related,
	}
}

func (s *TicketService) creatorNames(ctx context.Context, tickets []*domain.Ticket) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.CreatedBy)
	}
	infos, err := s.lookupSvc.GetUserInfo(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(infos))
	for id, info := range infos {
		names[id] = info.FullName
	}
	return names, nil
}
