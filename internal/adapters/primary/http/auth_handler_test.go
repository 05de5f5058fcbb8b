package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgadapter "github.com/andre-sptr/sitiket-sub000/internal/adapters/secondary/postgres"
	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	"github.com/andre-sptr/sitiket-sub000/internal/core/services"
)

func newAuthRouter() *chi.Mux {
	userRepo := pgadapter.NewUserRepository(testPool)
	authService := services.NewAuthService(userRepo)
	logger := testLogger()
	errorHandler := NewErrorHandler(logger)
	authHandler := NewAuthHandler(authService, newTestTokenManager(), errorHandler, logger)

	router := chi.NewRouter()
	router.Route("/auth", authHandler.RegisterRoutes)

	return router
}

func loginBody(email, password string) *bytes.Buffer {
	return bytes.NewBufferString(fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	user := createUserWithRole(t, ctx, domain.RoleHD)

	router := newAuthRouter()
	req := httptest.NewRequest(stdhttp.MethodPost, "/auth/login", loginBody(user.Email, "Password1"))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code, recorder.Body.String())

	var response LoginResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, user.ID.String(), response.UserID)
	assert.Equal(t, "hd", response.Role)

	claims, err := newTestTokenManager().ValidateToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleHD, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	user := createUserWithRole(t, ctx, domain.RoleHD)

	router := newAuthRouter()
	req := httptest.NewRequest(stdhttp.MethodPost, "/auth/login", loginBody(user.Email, "WrongPassword1"))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusUnauthorized, recorder.Code)
}

func TestLogin_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	router := newAuthRouter()
	req := httptest.NewRequest(stdhttp.MethodPost, "/auth/login", loginBody("nobody@example.com", "Password1"))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusUnauthorized, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "INVALID_CREDENTIALS", response.Code)
}

func TestLogin_DisabledAccount(t *testing.T) {
	ctx := context.Background()
	user := createUserWithRole(t, ctx, domain.RoleHD)
	require.NoError(t, pgadapter.NewUserRepository(testPool).SetActive(ctx, user.ID, false))

	router := newAuthRouter()
	req := httptest.NewRequest(stdhttp.MethodPost, "/auth/login", loginBody(user.Email, "Password1"))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusForbidden, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "ACCOUNT_DISABLED", response.Code)
}
