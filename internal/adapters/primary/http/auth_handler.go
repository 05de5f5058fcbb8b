package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/validation"
	"github.com/andre-sptr/sitiket-sub000/internal/auth"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

// AuthHandler handles authentication requests.
type AuthHandler struct {
	authService  ports.AuthService
	tokenManager *auth.TokenManager
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(
	authService ports.AuthService,
	tokenManager *auth.TokenManager,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenManager: tokenManager,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "auth"),
	}
}

// RegisterRoutes registers the auth routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
}

// LoginRequest defines the expected JSON body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login request
func (r *LoginRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("email", r.Email).
		Email("email", r.Email)
	v.Required("password", r.Password)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// LoginResponse carries the issued token and the user's identity.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[LoginRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	token, err := h.tokenManager.GenerateToken(user.ID, user.Role)
	if err != nil {
		h.logger.Error("failed to generate token", "user_id", user.ID, "error", err)
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)

	WriteJSON(w, http.StatusOK, LoginResponse{
		Token:    token,
		UserID:   user.ID.String(),
		FullName: user.FullName,
		Email:    user.Email,
		Role:     string(user.Role),
	})
}
