package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/http/middleware"
	"github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/validation"
	"github.com/andre-sptr/sitiket-sub000/internal/auth"
	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
	"github.com/andre-sptr/sitiket-sub000/internal/core/services"
)

const maxTicketsPerPage = 100

// TicketHandler handles HTTP requests for tickets
type TicketHandler struct {
	ticketService ports.TicketService
	whatsapp      *services.WhatsAppComposer
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(
	ticketService ports.TicketService,
	whatsapp *services.WhatsAppComposer,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		whatsapp:      whatsapp,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "ticket"),
	}
}

// Router sets up a new chi Router for all ticket-related routes.
func (h *TicketHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all ticket endpoints.
func (h *TicketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListTickets)
	r.Post("/", h.HandleCreateTicket)

	// Routes for a specific ticket
	r.Route("/{ticketID}", func(r chi.Router) {
		r.Get("/", h.HandleGetTicket)
		r.Patch("/", h.HandleUpdateTicket)
		r.Delete("/", h.HandleDeleteTicket)
		r.Patch("/status", h.HandleUpdateTicketStatus)
		r.Get("/progress", h.HandleListProgress)
		r.Post("/progress", h.HandleAddProgress)
		r.Get("/whatsapp-link", h.HandleWhatsAppLink)
	})
}

// --- Request/Response DTOs ---

// CreateTicketRequest defines the expected JSON body for creating a ticket
type CreateTicketRequest struct {
	IncidentNumber string   `json:"incidentNumber"`
	SiteCode       string   `json:"siteCode"`
	SiteName       string   `json:"siteName"`
	DatekCode      string   `json:"datekCode"`
	Location       string   `json:"location"`
	Provider       string   `json:"provider"`
	Category       string   `json:"category"`
	DistanceRange  string   `json:"distanceRange"`
	Team           string   `json:"team"`
	Technicians    []string `json:"technicians"`
	Cause          string   `json:"cause"`
	JamOpen        *string  `json:"jamOpen"`
	TTRTargetHours float64  `json:"ttrTargetHours"`
}

// Validate validates the create ticket request
func (r *CreateTicketRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("incidentNumber", r.IncidentNumber).
		MaxLength("incidentNumber", r.IncidentNumber, domain.MaxIncidentNumberLength)

	v.Required("siteCode", r.SiteCode).
		MaxLength("siteCode", r.SiteCode, domain.MaxSiteCodeLength)

	v.MaxLength("siteName", r.SiteName, domain.MaxSiteNameLength)
	v.MaxLength("cause", r.Cause, domain.MaxFreeTextLength)

	v.Custom("ttrTargetHours", r.TTRTargetHours >= 0, "Must not be negative")

	if r.JamOpen != nil {
		if _, err := time.Parse(time.RFC3339, *r.JamOpen); err != nil {
			v.Custom("jamOpen", false, "Must be a valid RFC3339 timestamp")
		}
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateTicketRequest defines the expected JSON body for editing a ticket.
// Absent fields are left untouched.
type UpdateTicketRequest struct {
	SiteName      *string  `json:"siteName"`
	DatekCode     *string  `json:"datekCode"`
	Location      *string  `json:"location"`
	Provider      *string  `json:"provider"`
	Category      *string  `json:"category"`
	DistanceRange *string  `json:"distanceRange"`
	Team          *string  `json:"team"`
	Technicians   []string `json:"technicians"`
	Cause         *string  `json:"cause"`
	Remedy        *string  `json:"remedy"`
	Obstacle      *string  `json:"obstacle"`
}

// Validate validates the update ticket request
func (r *UpdateTicketRequest) Validate() error {
	v := validation.NewValidator()

	if r.SiteName != nil {
		v.MaxLength("siteName", *r.SiteName, domain.MaxSiteNameLength)
	}
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"cause", r.Cause},
		{"remedy", r.Remedy},
		{"obstacle", r.Obstacle},
	} {
		if field.value != nil {
			v.MaxLength(field.name, *field.value, domain.MaxFreeTextLength)
		}
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateStatusRequest defines the expected JSON body for status updates
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Validate validates the update status request
func (r *UpdateStatusRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("status", r.Status).
		Custom("status", r.Status == "" || domain.IsValidStatus(domain.TicketStatus(r.Status)), "Unknown ticket status")

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// AddProgressRequest defines the expected JSON body for appending a
// progress update.
type AddProgressRequest struct {
	Timestamp         *string  `json:"timestamp"`
	Message           string   `json:"message"`
	StatusAfterUpdate *string  `json:"statusAfterUpdate"`
	Attachments       []string `json:"attachments"`
}

// Validate validates the add progress request
func (r *AddProgressRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("message", r.Message).
		MaxLength("message", r.Message, domain.MaxFreeTextLength)

	if r.StatusAfterUpdate != nil {
		v.Custom("statusAfterUpdate",
			domain.IsValidStatus(domain.TicketStatus(*r.StatusAfterUpdate)),
			"Unknown ticket status")
	}

	if r.Timestamp != nil {
		if _, err := time.Parse(time.RFC3339, *r.Timestamp); err != nil {
			v.Custom("timestamp", false, "Must be a valid RFC3339 timestamp")
		}
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// TicketDTO defines the JSON response for tickets.
type TicketDTO struct {
	ID             string   `json:"id"`
	IncidentNumber string   `json:"incidentNumber"`
	SiteCode       string   `json:"siteCode"`
	SiteName       string   `json:"siteName"`
	DatekCode      string   `json:"datekCode"`
	Location       string   `json:"location"`
	Provider       string   `json:"provider"`
	Category       string   `json:"category"`
	DistanceRange  string   `json:"distanceRange"`
	Team           string   `json:"team"`
	Technicians    []string `json:"technicians"`
	Cause          string   `json:"cause"`
	Remedy         string   `json:"remedy"`
	Obstacle       string   `json:"obstacle"`
	JamOpen        string   `json:"jamOpen"`
	TTRTargetHours float64  `json:"ttrTargetHours"`
	MaxJamClose    string   `json:"maxJamClose"`
	TTRRealHours   *float64 `json:"ttrRealHours"`
	SisaTTRHours   *float64 `json:"sisaTtrHours"`
	Status         string   `json:"status"`
	TTRCompliance  string   `json:"ttrCompliance"`
	CreatedBy      string   `json:"createdBy"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      *string  `json:"updatedAt"`
}

// TicketViewDTO is a TicketDTO plus the fields derived at read time.
type TicketViewDTO struct {
	TicketDTO
	DisplayStatus string  `json:"displayStatus"`
	RemainingTTR  float64 `json:"remainingTtrHours"`
	RemainingText string  `json:"remainingTtrText"`
	Band          string  `json:"ttrBand"`
	DueSoon       bool    `json:"dueSoon"`
	Related       bool    `json:"related"`
}

func toTicketDTO(ticket *domain.Ticket) TicketDTO {
	var updatedAt *string
	if ticket.UpdatedAt != nil {
		value := ticket.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return TicketDTO{
		ID:             ticket.ID.String(),
		IncidentNumber: ticket.IncidentNumber,
		SiteCode:       ticket.SiteCode,
		SiteName:       ticket.SiteName,
		DatekCode:      ticket.DatekCode,
		Location:       ticket.Location,
		Provider:       ticket.Provider,
		Category:       ticket.Category,
		DistanceRange:  ticket.DistanceRange,
		Team:           ticket.Team,
		Technicians:    ticket.Technicians,
		Cause:          ticket.Cause,
		Remedy:         ticket.Remedy,
		Obstacle:       ticket.Obstacle,
		JamOpen:        ticket.JamOpen.Format(time.RFC3339),
		TTRTargetHours: ticket.TTRTargetHours,
		MaxJamClose:    ticket.MaxJamClose.Format(time.RFC3339),
		TTRRealHours:   ticket.TTRRealHours,
		SisaTTRHours:   ticket.SisaTTRHours,
		Status:         string(ticket.Status),
		TTRCompliance:  string(ticket.TTRCompliance),
		CreatedBy:      ticket.CreatedBy.String(),
		CreatedAt:      ticket.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      updatedAt,
	}
}

func toTicketViewDTO(view *ports.TicketView) TicketViewDTO {
	return TicketViewDTO{
		TicketDTO:     toTicketDTO(view.Ticket),
		DisplayStatus: string(view.DisplayStatus),
		RemainingTTR:  view.RemainingTTR.RemainingHours,
		RemainingText: domain.FormatHours(view.RemainingTTR.RemainingHours),
		Band:          string(view.Band),
		DueSoon:       view.DueSoon,
		Related:       view.Related,
	}
}

func toTicketViewDTOs(views []*ports.TicketView) []TicketViewDTO {
	response := make([]TicketViewDTO, 0, len(views))
	for _, view := range views {
		response = append(response, toTicketViewDTO(view))
	}
	return response
}

// ProgressUpdateDTO defines the JSON response for progress updates.
type ProgressUpdateDTO struct {
	ID                int64    `json:"id"`
	TicketID          string   `json:"ticketId"`
	Timestamp         string   `json:"timestamp"`
	Message           string   `json:"message"`
	StatusAfterUpdate *string  `json:"statusAfterUpdate"`
	Attachments       []string `json:"attachments"`
	Source            string   `json:"source"`
	AuthorID          string   `json:"authorId"`
	CreatedAt         string   `json:"createdAt"`
}

func toProgressUpdateDTO(update *domain.ProgressUpdate) ProgressUpdateDTO {
	var status *string
	if update.StatusAfterUpdate != nil {
		value := string(*update.StatusAfterUpdate)
		status = &value
	}

	return ProgressUpdateDTO{
		ID:                update.ID,
		TicketID:          update.TicketID.String(),
		Timestamp:         update.Timestamp.Format(time.RFC3339),
		Message:           update.Message,
		StatusAfterUpdate: status,
		Attachments:       update.Attachments,
		Source:            string(update.Source),
		AuthorID:          update.AuthorID.String(),
		CreatedAt:         update.CreatedAt.Format(time.RFC3339),
	}
}

// --- Handlers ---

// HandleListTickets handles GET /tickets
func (h *TicketHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	pagination := validation.ParsePagination(r, maxTicketsPerPage)

	filter, sortOrder, err := parseTicketListQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.ListTicketsParams{
		ViewerID: claims.UserID,
		Filter:   filter,
		Sort:     sortOrder,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}

	page, err := h.ticketService.ListTickets(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WritePaginated(w, toTicketViewDTOs(page.Items), page.Page, page.PageSize, page.Total)
}

// HandleCreateTicket handles POST /tickets
func (h *TicketHandler) HandleCreateTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var jamOpen time.Time
	if req.JamOpen != nil {
		// Already validated above
		jamOpen, _ = time.Parse(time.RFC3339, *req.JamOpen)
	}

	params := ports.CreateTicketParams{
		IncidentNumber: req.IncidentNumber,
		SiteCode:       req.SiteCode,
		SiteName:       req.SiteName,
		DatekCode:      req.DatekCode,
		Location:       req.Location,
		Provider:       req.Provider,
		Category:       req.Category,
		DistanceRange:  req.DistanceRange,
		Team:           req.Team,
		Technicians:    req.Technicians,
		Cause:          req.Cause,
		JamOpen:        jamOpen,
		TTRTargetHours: req.TTRTargetHours,
		ActorID:        claims.UserID,
	}

	ticket, err := h.ticketService.CreateTicket(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket created",
		"ticket_id", ticket.ID,
		"incident_number", ticket.IncidentNumber,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toTicketDTO(ticket))
}

// HandleGetTicket handles GET /tickets/{ticketID}
func (h *TicketHandler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	view, err := h.ticketService.GetTicket(r.Context(), ticketID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toTicketViewDTO(view))
}

// HandleUpdateTicket handles PATCH /tickets/{ticketID}
func (h *TicketHandler) HandleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.UpdateTicketParams{
		TicketID:      ticketID,
		SiteName:      req.SiteName,
		DatekCode:     req.DatekCode,
		Location:      req.Location,
		Provider:      req.Provider,
		Category:      req.Category,
		DistanceRange: req.DistanceRange,
		Team:          req.Team,
		Technicians:   req.Technicians,
		Cause:         req.Cause,
		Remedy:        req.Remedy,
		Obstacle:      req.Obstacle,
		ActorID:       claims.UserID,
	}

	ticket, err := h.ticketService.UpdateTicket(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleDeleteTicket handles DELETE /tickets/{ticketID}
func (h *TicketHandler) HandleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.ticketService.DeleteTicket(r.Context(), ticketID, claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket deleted",
		"ticket_id", ticketID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// HandleUpdateTicketStatus handles PATCH /tickets/{ticketID}/status
func (h *TicketHandler) HandleUpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateStatusRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.UpdateStatusParams{
		TicketID: ticketID,
		Status:   domain.TicketStatus(req.Status),
		ActorID:  claims.UserID,
	}

	ticket, err := h.ticketService.UpdateStatus(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket status updated",
		"ticket_id", ticketID,
		"new_status", req.Status,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleListProgress handles GET /tickets/{ticketID}/progress
func (h *TicketHandler) HandleListProgress(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	updates, err := h.ticketService.ListProgressUpdates(r.Context(), ticketID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]ProgressUpdateDTO, 0, len(updates))
	for _, update := range updates {
		response = append(response, toProgressUpdateDTO(update))
	}

	WriteList(w, response)
}

// HandleAddProgress handles POST /tickets/{ticketID}/progress
func (h *TicketHandler) HandleAddProgress(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[AddProgressRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var timestamp time.Time
	if req.Timestamp != nil {
		timestamp, _ = time.Parse(time.RFC3339, *req.Timestamp)
	}

	var statusAfter *domain.TicketStatus
	if req.StatusAfterUpdate != nil {
		status := domain.TicketStatus(*req.StatusAfterUpdate)
		statusAfter = &status
	}

	params := ports.AddProgressParams{
		TicketID:          ticketID,
		Timestamp:         timestamp,
		Message:           req.Message,
		StatusAfterUpdate: statusAfter,
		Attachments:       req.Attachments,
		Source:            domain.SourceHD,
		ActorID:           claims.UserID,
	}

	update, err := h.ticketService.AddProgressUpdate(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("progress update added",
		"ticket_id", ticketID,
		"update_id", update.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toProgressUpdateDTO(update))
}

// WhatsAppLinkResponse carries a prefilled wa.me link for a ticket.
type WhatsAppLinkResponse struct {
	Link string `json:"link"`
}

// HandleWhatsAppLink handles GET /tickets/{ticketID}/whatsapp-link
func (h *TicketHandler) HandleWhatsAppLink(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	view, err := h.ticketService.GetTicket(r.Context(), ticketID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	phone := r.URL.Query().Get("phone")
	link := h.whatsapp.ComposeTicketLink(view.Ticket, phone)

	WriteJSON(w, http.StatusOK, WhatsAppLinkResponse{Link: link})
}

// --- Helper methods ---

// getClaims extracts and validates user claims from the request context
func (h *TicketHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}

// parseTicketID extracts and validates the ticket ID from the URL
func (h *TicketHandler) parseTicketID(r *http.Request) (uuid.UUID, error) {
	ticketID, err := uuid.Parse(chi.URLParam(r, "ticketID"))
	if err != nil {
		v := validation.NewValidator()
		v.Custom("ticketID", false, "Invalid ticket ID")
		return uuid.Nil, v.Errors()
	}
	return ticketID, nil
}

// parseTicketListQuery extracts the filter and sort order from query
// parameters. The export endpoints accept the same filter set, so this is
// shared with the report handler.
func parseTicketListQuery(r *http.Request) (domain.TicketFilter, domain.TicketSort, error) {
	v := validation.NewValidator()
	var filter domain.TicketFilter

	if search := r.URL.Query().Get("search"); search != "" {
		filter.Search = search
	}

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := domain.TicketStatus(statusStr)
		if !domain.IsValidStatus(status) {
			v.Custom("status", false, "Unknown ticket status")
		} else {
			filter.Status = &status
		}
	}

	if complianceStr := r.URL.Query().Get("compliance"); complianceStr != "" {
		compliance := domain.Compliance(complianceStr)
		if compliance != domain.Comply && compliance != domain.NotComply {
			v.Custom("compliance", false, "Must be COMPLY or NOT COMPLY")
		} else {
			filter.Compliance = &compliance
		}
	}

	if r.URL.Query().Get("related") != "" {
		related := validation.ParseBoolQueryParam(r, "related", false)
		filter.RelatedOnly = &related
	}

	filter.Provider = validation.ParseStringQueryParam(r, "provider")
	filter.Category = validation.ParseStringQueryParam(r, "category")
	filter.DistanceRange = validation.ParseStringQueryParam(r, "distanceRange")
	filter.SiteCode = validation.ParseStringQueryParam(r, "siteCode")
	filter.SiteName = validation.ParseStringQueryParam(r, "siteName")
	filter.DatekCode = validation.ParseStringQueryParam(r, "datekCode")
	filter.Team = validation.ParseStringQueryParam(r, "team")
	filter.Creator = validation.ParseStringQueryParam(r, "creator")

	openFrom, err := validation.ParseTimeQueryParam(r, "openFrom")
	if err != nil {
		v.Custom("openFrom", false, "Must be a valid date or timestamp")
	}
	openTo, err := validation.ParseTimeQueryParam(r, "openTo")
	if err != nil {
		v.Custom("openTo", false, "Must be a valid date or timestamp")
	}

	if openFrom != nil {
		filter.OpenFrom = &openFrom.Time
	}
	if openTo != nil {
		adjusted := openTo.Time
		if openTo.DateOnly {
			// Inclusive through the end of the named day
			adjusted = adjusted.Add(24*time.Hour - time.Nanosecond)
		}
		filter.OpenTo = &adjusted
	}

	if filter.OpenFrom != nil && filter.OpenTo != nil && filter.OpenFrom.After(*filter.OpenTo) {
		v.Custom("openFrom", false, "Must be before openTo")
	}

	sortOrder := domain.SortNewestFirst
	if sortStr := r.URL.Query().Get("sort"); sortStr != "" {
		switch domain.TicketSort(sortStr) {
		case domain.SortNewestFirst, domain.SortOldestFirst, domain.SortTTRAscending, domain.SortSiteCode:
			sortOrder = domain.TicketSort(sortStr)
		default:
			v.Custom("sort", false, "Unknown sort order")
		}
	}

	if v.HasErrors() {
		return domain.TicketFilter{}, "", v.Errors()
	}

	return filter, sortOrder, nil
}
