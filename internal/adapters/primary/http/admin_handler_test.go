package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/http/middleware"
	wsAdapter "github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/websocket"
	pgadapter "github.com/andre-sptr/sitiket-sub000/internal/adapters/secondary/postgres"
	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	"github.com/andre-sptr/sitiket-sub000/internal/core/services"
)

func newAdminRouter() *chi.Mux {
	userRepo := pgadapter.NewUserRepository(testPool)
	authzService := services.NewAuthorizationService(userRepo)
	logger := testLogger()
	changefeed := services.NewChangefeedService(wsAdapter.NewHub(logger), logger)
	adminService := services.NewAdminService(userRepo, authzService, changefeed)
	errorHandler := NewErrorHandler(logger)
	adminHandler := NewAdminHandler(adminService, errorHandler, logger)

	router := chi.NewRouter()
	router.Use(mw.JWTMiddleware(newTestTokenManager()))
	router.Route("/admin", adminHandler.RegisterRoutes)

	return router
}

func TestAdminUsersList(t *testing.T) {
	ctx := context.Background()
	admin := createUserWithRole(t, ctx, domain.RoleAdmin)
	operator := createUserWithRole(t, ctx, domain.RoleHD)

	router := newAdminRouter()
	req := httptest.NewRequest(stdhttp.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, admin))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response struct {
		Data  []UserSummaryDTO `json:"data"`
		Count int              `json:"count"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, len(response.Data), response.Count)

	assertUserInList(t, response.Data, admin.ID, "admin")
	assertUserInList(t, response.Data, operator.ID, "hd")
}

func TestAdminUsersList_Forbidden(t *testing.T) {
	ctx := context.Background()
	operator := createUserWithRole(t, ctx, domain.RoleHD)

	router := newAdminRouter()
	req := httptest.NewRequest(stdhttp.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, operator))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusForbidden, recorder.Code)
}

func TestAdminCreateUser_Unsupported(t *testing.T) {
	ctx := context.Background()
	admin := createUserWithRole(t, ctx, domain.RoleAdmin)

	router := newAdminRouter()
	body := bytes.NewBufferString(`{"fullName":"New User","email":"new@example.com"}`)
	req := httptest.NewRequest(stdhttp.MethodPost, "/admin/users", body)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, admin))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "UNSUPPORTED_ACTION", response.Code)
}

func TestAdminUpdateUserRole(t *testing.T) {
	ctx := context.Background()
	admin := createUserWithRole(t, ctx, domain.RoleAdmin)
	target := createUserWithRole(t, ctx, domain.RoleGuest)

	router := newAdminRouter()
	body := bytes.NewBufferString(`{"role":"hd"}`)
	req := httptest.NewRequest(stdhttp.MethodPatch, "/admin/users/"+target.ID.String()+"/role", body)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, admin))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusNoContent, recorder.Code)

	updated, err := pgadapter.NewUserRepository(testPool).GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHD, updated.Role)
}

func TestAdminUpdateUserRole_SelfDemotionRejected(t *testing.T) {
	ctx := context.Background()
	admin := createUserWithRole(t, ctx, domain.RoleAdmin)

	router := newAdminRouter()
	body := bytes.NewBufferString(`{"role":"guest"}`)
	req := httptest.NewRequest(stdhttp.MethodPatch, "/admin/users/"+admin.ID.String()+"/role", body)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, admin))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusForbidden, recorder.Code)
}

func TestAdminUpdateUserRole_InvalidRole(t *testing.T) {
	ctx := context.Background()
	admin := createUserWithRole(t, ctx, domain.RoleAdmin)
	target := createUserWithRole(t, ctx, domain.RoleGuest)

	router := newAdminRouter()
	body := bytes.NewBufferString(`{"role":"superuser"}`)
	req := httptest.NewRequest(stdhttp.MethodPatch, "/admin/users/"+target.ID.String()+"/role", body)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, admin))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusBadRequest, recorder.Code)
}

func TestAdminUpdateUserStatus(t *testing.T) {
	ctx := context.Background()
	admin := createUserWithRole(t, ctx, domain.RoleAdmin)
	target := createUserWithRole(t, ctx, domain.RoleHD)

	router := newAdminRouter()
	body := bytes.NewBufferString(`{"isActive":false}`)
	req := httptest.NewRequest(stdhttp.MethodPatch, "/admin/users/"+target.ID.String()+"/status", body)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, admin))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusNoContent, recorder.Code)

	updated, err := pgadapter.NewUserRepository(testPool).GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestAdminResetPassword(t *testing.T) {
	ctx := context.Background()
	admin := createUserWithRole(t, ctx, domain.RoleAdmin)
	target := createUserWithRole(t, ctx, domain.RoleHD)

	router := newAdminRouter()
	req := httptest.NewRequest(stdhttp.MethodPost, "/admin/users/"+target.ID.String()+"/reset-password", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, admin))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response ResetPasswordResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.NotEmpty(t, response.TemporaryPassword)

	updated, err := pgadapter.NewUserRepository(testPool).GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.True(t, updated.CheckPassword(response.TemporaryPassword))
	assert.False(t, updated.CheckPassword("Password1"))
}

func assertUserInList(t *testing.T, users []UserSummaryDTO, userID uuid.UUID, role string) {
	t.Helper()
	for _, user := range users {
		if user.ID == userID.String() {
			assert.Equal(t, role, user.Role)
			assert.True(t, user.IsActive)
			return
		}
	}
	t.Fatalf("user %s not found in list", userID)
}
