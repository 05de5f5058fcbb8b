package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/http/middleware"
	"github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/validation"
	"github.com/andre-sptr/sitiket-sub000/internal/auth"
	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

// SettingsHandler handles HTTP requests for dashboard configuration.
type SettingsHandler struct {
	settingsService ports.SettingsService
	errorHandler    *ErrorHandler
	logger          *slog.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(
	settingsService ports.SettingsService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		errorHandler:    errorHandler,
		logger:          logger.With("handler", "settings"),
	}
}

// RegisterRoutes sets up the routing for settings endpoints.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGetSettings)
	r.Patch("/thresholds", h.HandleUpdateThresholds)
	r.Patch("/category-targets", h.HandleUpdateCategoryTargets)

	r.Route("/dropdowns/{name}", func(r chi.Router) {
		r.Get("/", h.HandleGetDropdown)
		r.Put("/", h.HandleUpdateDropdown)
	})
}

// UpdateThresholdsRequest defines the JSON body for threshold updates.
type UpdateThresholdsRequest struct {
	WarningHours         float64 `json:"warningHours"`
	CriticalHours        float64 `json:"criticalHours"`
	DueSoonHours         float64 `json:"dueSoonHours"`
	NoUpdateAlertMinutes int     `json:"noUpdateAlertMinutes"`
}

// Validate validates the update thresholds request
func (r *UpdateThresholdsRequest) Validate() error {
	v := validation.NewValidator()

	v.Custom("warningHours", r.WarningHours >= 0, "Must not be negative")
	v.Custom("criticalHours", r.CriticalHours >= 0, "Must not be negative")
	v.Custom("dueSoonHours", r.DueSoonHours >= 0, "Must not be negative")
	v.Custom("noUpdateAlertMinutes", r.NoUpdateAlertMinutes >= 0, "Must not be negative")

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateCategoryTargetsRequest defines the JSON body for per-category TTR
// target updates.
type UpdateCategoryTargetsRequest struct {
	Targets map[string]float64 `json:"targets"`
}

// Validate validates the update category targets request
func (r *UpdateCategoryTargetsRequest) Validate() error {
	v := validation.NewValidator()

	v.Custom("targets", len(r.Targets) > 0, "At least one category target is required")
	for category, hours := range r.Targets {
		v.Custom("targets", category != "", "Category name must not be empty")
		v.Custom("targets", hours > 0, "Target hours must be positive")
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateDropdownRequest defines the JSON body for replacing a dropdown's
// option list.
type UpdateDropdownRequest struct {
	Options []string `json:"options"`
}

// Validate validates the update dropdown request
func (r *UpdateDropdownRequest) Validate() error {
	v := validation.NewValidator()

	v.Custom("options", len(r.Options) > 0, "At least one option is required")
	for _, option := range r.Options {
		v.Custom("options", option != "", "Options must not be empty")
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleGetSettings handles GET /settings
func (h *SettingsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	settings, err := h.settingsService.Resolve(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, settings)
}

// HandleUpdateThresholds handles PATCH /settings/thresholds
func (h *SettingsHandler) HandleUpdateThresholds(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[UpdateThresholdsRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	settings, err := h.settingsService.UpdateThresholds(r.Context(), claims.UserID, domain.Thresholds{
		WarningHours:         req.WarningHours,
		CriticalHours:        req.CriticalHours,
		DueSoonHours:         req.DueSoonHours,
		NoUpdateAlertMinutes: req.NoUpdateAlertMinutes,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("thresholds updated", "actor_id", claims.UserID)

	WriteJSON(w, http.StatusOK, settings)
}

// HandleUpdateCategoryTargets handles PATCH /settings/category-targets
func (h *SettingsHandler) HandleUpdateCategoryTargets(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[UpdateCategoryTargetsRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	settings, err := h.settingsService.UpdateCategoryTargets(r.Context(), claims.UserID, req.Targets)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("category targets updated", "actor_id", claims.UserID)

	WriteJSON(w, http.StatusOK, settings)
}

// HandleGetDropdown handles GET /settings/dropdowns/{name}
func (h *SettingsHandler) HandleGetDropdown(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	set, err := h.settingsService.Dropdown(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, set)
}

// HandleUpdateDropdown handles PUT /settings/dropdowns/{name}
func (h *SettingsHandler) HandleUpdateDropdown(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[UpdateDropdownRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	set, err := h.settingsService.UpdateDropdown(r.Context(), claims.UserID, domain.DropdownSet{
		Name:    chi.URLParam(r, "name"),
		Options: req.Options,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("dropdown updated",
		"dropdown", set.Name,
		"actor_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, set)
}

// getClaims extracts and validates user claims from the request context.
func (h *SettingsHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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
