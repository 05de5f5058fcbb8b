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

type AdminHandler struct {
	adminService ports.AdminService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewAdminHandler(adminService ports.AdminService, errorHandler *ErrorHandler, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "admin"),
	}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.HandleListUsers)
		r.Post("/", h.HandleCreateUser)
		r.Patch("/{userID}/role", h.HandleUpdateUserRole)
		r.Patch("/{userID}/status", h.HandleUpdateUserStatus)
		r.Post("/{userID}/reset-password", h.HandleResetPassword)
	})
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

func (r *UpdateUserRoleRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("role", r.Role).
		OneOf("role", r.Role, []string{"admin", "hd", "guest"})

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive"`
}

func (r *UpdateUserStatusRequest) Validate() error {
	v := validation.NewValidator()

	v.NotNil("isActive", r.IsActive)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleListUsers handles GET /admin/users
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	users, err := h.adminService.ListUsers(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]UserSummaryDTO, 0, len(users))
	for _, user := range users {
		response = append(response, toUserSummaryDTO(user))
	}

	WriteList(w, response)
}

// HandleCreateUser handles POST /admin/users. Provisioning goes through
// the identity provider, so this always returns a structured rejection.
func (h *AdminHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	if err := h.adminService.CreateUser(r.Context(), claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteNoContent(w)
}

// HandleUpdateUserRole handles PATCH /admin/users/{userID}/role
func (h *AdminHandler) HandleUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	userID, err := h.parseUserID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateUserRoleRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.adminService.UpdateUserRole(r.Context(), claims.UserID, userID, domain.Role(req.Role)); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("user role updated",
		"target_user_id", userID,
		"new_role", req.Role,
		"actor_id", claims.UserID,
	)

	WriteNoContent(w)
}

// HandleUpdateUserStatus handles PATCH /admin/users/{userID}/status
func (h *AdminHandler) HandleUpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	userID, err := h.parseUserID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateUserStatusRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.adminService.UpdateUserStatus(r.Context(), claims.UserID, userID, *req.IsActive); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteNoContent(w)
}

// HandleResetPassword handles POST /admin/users/{userID}/reset-password
func (h *AdminHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	userID, err := h.parseUserID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	temporaryPassword, err := h.adminService.ResetUserPassword(r.Context(), claims.UserID, userID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("password reset issued",
		"target_user_id", userID,
		"actor_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, ResetPasswordResponse{
		TemporaryPassword: temporaryPassword,
	})
}

// UserSummaryDTO defines the admin list representation for a user.
type UserSummaryDTO struct {
	ID           string  `json:"id"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	IsActive     bool    `json:"isActive"`
	CreatedAt    string  `json:"createdAt"`
	LastActiveAt *string `json:"lastActiveAt"`
}

type ResetPasswordResponse struct {
	TemporaryPassword string `json:"temporaryPassword"`
}

func toUserSummaryDTO(user *domain.UserSummary) UserSummaryDTO {
	var lastActive *string
	if user.LastActiveAt != nil {
		value := user.LastActiveAt.Format(time.RFC3339)
		lastActive = &value
	}

	return UserSummaryDTO{
		ID:           user.ID.String(),
		FullName:     user.FullName,
		Email:        user.Email,
		Role:         string(user.Role),
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
		LastActiveAt: lastActive,
	}
}

func (h *AdminHandler) parseUserID(r *http.Request) (uuid.UUID, error) {
	idParam := chi.URLParam(r, "userID")
	userID, err := uuid.Parse(idParam)
	if err != nil {
		v := validation.NewValidator()
		v.Custom("userID", false, "Invalid user ID")
		return uuid.Nil, v.Errors()
	}

	return userID, nil
}

// getClaims extracts and validates user claims from the request context.
func (h *AdminHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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
