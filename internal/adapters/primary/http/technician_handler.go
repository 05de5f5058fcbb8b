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
)

// TechnicianHandler handles HTTP requests for the technician roster.
type TechnicianHandler struct {
	technicianService ports.TechnicianService
	errorHandler      *ErrorHandler
	logger            *slog.Logger
}

// NewTechnicianHandler creates a new technician handler.
func NewTechnicianHandler(
	technicianService ports.TechnicianService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TechnicianHandler {
	return &TechnicianHandler{
		technicianService: technicianService,
		errorHandler:      errorHandler,
		logger:            logger.With("handler", "technician"),
	}
}

// RegisterRoutes sets up the routing for technician endpoints.
func (h *TechnicianHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListTechnicians)
	r.Post("/", h.HandleCreateTechnician)
	r.Post("/reset", h.HandleResetToDefault)

	r.Route("/{technicianID}", func(r chi.Router) {
		r.Patch("/", h.HandleUpdateTechnician)
		r.Post("/deactivate", h.HandleDeactivateTechnician)
		r.Delete("/", h.HandleDeleteTechnician)
	})
}

// SaveTechnicianRequest defines the JSON body for creating or updating a
// roster entry.
type SaveTechnicianRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Area       string `json:"area"`
	EmployeeID string `json:"employeeId"`
}

// Validate validates the save technician request
func (r *SaveTechnicianRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("name", r.Name).
		MaxLength("name", r.Name, 255)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// TechnicianDTO defines the JSON response for technicians.
type TechnicianDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Area       string  `json:"area"`
	EmployeeID string  `json:"employeeId"`
	IsActive   bool    `json:"isActive"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  *string `json:"updatedAt"`
}

func toTechnicianDTO(technician *domain.Technician) TechnicianDTO {
	var updatedAt *string
	if technician.UpdatedAt != nil {
		value := technician.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return TechnicianDTO{
		ID:         technician.ID.String(),
		Name:       technician.Name,
		Phone:      technician.Phone,
		Area:       technician.Area,
		EmployeeID: technician.EmployeeID,
		IsActive:   technician.IsActive,
		CreatedAt:  technician.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  updatedAt,
	}
}

// HandleListTechnicians handles GET /technicians
func (h *TechnicianHandler) HandleListTechnicians(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	activeOnly := validation.ParseBoolQueryParam(r, "activeOnly", false)

	technicians, err := h.technicianService.ListTechnicians(r.Context(), claims.UserID, activeOnly)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]TechnicianDTO, 0, len(technicians))
	for _, technician := range technicians {
		response = append(response, toTechnicianDTO(technician))
	}

	WriteList(w, response)
}

// HandleCreateTechnician handles POST /technicians
func (h *TechnicianHandler) HandleCreateTechnician(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[SaveTechnicianRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	technician, err := h.technicianService.CreateTechnician(r.Context(), ports.SaveTechnicianParams{
		Name:       req.Name,
		Phone:      req.Phone,
		Area:       req.Area,
		EmployeeID: req.EmployeeID,
		ActorID:    claims.UserID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("technician created",
		"technician_id", technician.ID,
		"actor_id", claims.UserID,
	)

	WriteCreated(w, toTechnicianDTO(technician))
}

// HandleUpdateTechnician handles PATCH /technicians/{technicianID}
func (h *TechnicianHandler) HandleUpdateTechnician(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	technicianID, err := h.parseTechnicianID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[SaveTechnicianRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	technician, err := h.technicianService.UpdateTechnician(r.Context(), ports.SaveTechnicianParams{
		TechnicianID: &technicianID,
		Name:         req.Name,
		Phone:        req.Phone,
		Area:         req.Area,
		EmployeeID:   req.EmployeeID,
		ActorID:      claims.UserID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toTechnicianDTO(technician))
}

// HandleDeactivateTechnician handles POST /technicians/{technicianID}/deactivate
func (h *TechnicianHandler) HandleDeactivateTechnician(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	technicianID, err := h.parseTechnicianID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.technicianService.DeactivateTechnician(r.Context(), technicianID, claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteNoContent(w)
}

// HandleDeleteTechnician handles DELETE /technicians/{technicianID}
func (h *TechnicianHandler) HandleDeleteTechnician(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	technicianID, err := h.parseTechnicianID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.technicianService.DeleteTechnician(r.Context(), technicianID, claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("technician deleted",
		"technician_id", technicianID,
		"actor_id", claims.UserID,
	)

	WriteNoContent(w)
}

// HandleResetToDefault handles POST /technicians/reset. Bulk resets are
// deliberately unsupported; this always returns the structured rejection.
func (h *TechnicianHandler) HandleResetToDefault(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	if err := h.technicianService.ResetToDefault(r.Context(), claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteNoContent(w)
}

func (h *TechnicianHandler) parseTechnicianID(r *http.Request) (uuid.UUID, error) {
	technicianID, err := uuid.Parse(chi.URLParam(r, "technicianID"))
	if err != nil {
		v := validation.NewValidator()
		v.Custom("technicianID", false, "Invalid technician ID")
		return uuid.Nil, v.Errors()
	}
	return technicianID, nil
}

// getClaims extracts and validates user claims from the request context.
func (h *TechnicianHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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
