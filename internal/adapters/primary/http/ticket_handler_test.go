package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mw "github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/http/middleware"
	wsAdapter "github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/websocket"
	pgadapter "github.com/andre-sptr/sitiket-sub000/internal/adapters/secondary/postgres"
	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	"github.com/andre-sptr/sitiket-sub000/internal/core/mocks"
	"github.com/andre-sptr/sitiket-sub000/internal/core/services"
)

func newTicketRouter() *chi.Mux {
	userRepo := pgadapter.NewUserRepository(testPool)
	ticketRepo := pgadapter.NewTicketRepository(testPool)
	progressRepo := pgadapter.NewProgressRepository(testPool)
	settingsRepo := pgadapter.NewSettingsRepository(testPool)
	authzService := services.NewAuthorizationService(userRepo)
	logger := testLogger()
	changefeed := services.NewChangefeedService(wsAdapter.NewHub(logger), logger)

	cache := mocks.NewMockSettingsCache()
	cache.On("Get", mock.Anything).Return(domain.Settings{}, false, nil)
	cache.On("Put", mock.Anything, mock.Anything).Return(nil)
	cache.On("GetDropdown", mock.Anything, mock.Anything).Return(domain.DropdownSet{}, false, nil)
	cache.On("PutDropdown", mock.Anything, mock.Anything).Return(nil)

	settingsService := services.NewSettingsService(settingsRepo, cache, authzService, changefeed, logger)
	lookupService := services.NewUserLookupService(userRepo)
	ticketService := services.NewTicketService(ticketRepo, progressRepo, authzService, settingsService, lookupService, changefeed)
	errorHandler := NewErrorHandler(logger)
	ticketHandler := NewTicketHandler(ticketService, services.NewWhatsAppComposer(), errorHandler, logger)

	router := chi.NewRouter()
	router.Use(mw.JWTMiddleware(newTestTokenManager()))
	router.Route("/tickets", ticketHandler.RegisterRoutes)

	return router
}

// shortSiteCode returns a site code unique enough to keep tests from
// tripping each other's related-incident detection.
func shortSiteCode() string {
	return "STO-" + strings.ToUpper(uuid.NewString()[:8])
}

func createTicketRequest(incident, siteCode string) map[string]any {
	return map[string]any{
		"incidentNumber": incident,
		"siteCode":       siteCode,
		"siteName":       "Site " + siteCode,
		"provider":       "Telkomsel",
		"category":       "MAJOR",
		"technicians":    []string{"Budi", "Agus"},
		"cause":          "Fiber cut",
		"jamOpen":        time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
		"ttrTargetHours": 8,
	}
}

func postTicket(t *testing.T, router *chi.Mux, token string, payload map[string]any) TicketDTO {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(stdhttp.MethodPost, "/tickets", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)
	require.Equal(t, stdhttp.StatusCreated, recorder.Code, recorder.Body.String())

	var created TicketDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))
	return created
}

func TestTicketCreateAndGet(t *testing.T) {
	ctx := context.Background()
	operator := createUserWithRole(t, ctx, domain.RoleHD)
	token := tokenFor(t, operator)
	router := newTicketRouter()

	incident := "INC" + uuid.NewString()[:13]
	created := postTicket(t, router, token, createTicketRequest(incident, shortSiteCode()))

	assert.Equal(t, incident, created.IncidentNumber)
	assert.Equal(t, "ASSIGNED", created.Status, "technicians attached at intake")
	assert.Equal(t, "COMPLY", created.TTRCompliance)
	assert.Nil(t, created.TTRRealHours)

	jamOpen, err := time.Parse(time.RFC3339, created.JamOpen)
	require.NoError(t, err)
	maxJamClose, err := time.Parse(time.RFC3339, created.MaxJamClose)
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, maxJamClose.Sub(jamOpen))

	req := httptest.NewRequest(stdhttp.MethodGet, "/tickets/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var view TicketViewDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	assert.Equal(t, "ASSIGNED", view.DisplayStatus)
	assert.False(t, view.Related)
	assert.Greater(t, view.RemainingTTR, 0.0)
	assert.NotEmpty(t, view.RemainingText)
}

func TestTicketCreate_ValidationError(t *testing.T) {
	ctx := context.Background()
	operator := createUserWithRole(t, ctx, domain.RoleHD)
	router := newTicketRouter()

	body := bytes.NewBufferString(`{"siteCode":"STO-X"}`)
	req := httptest.NewRequest(stdhttp.MethodPost, "/tickets", body)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, operator))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusBadRequest, recorder.Code)
}

func TestTicketCreate_GuestForbidden(t *testing.T) {
	ctx := context.Background()
	guest := createUserWithRole(t, ctx, domain.RoleGuest)
	router := newTicketRouter()

	payload := createTicketRequest("INC"+uuid.NewString()[:13], shortSiteCode())
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(stdhttp.MethodPost, "/tickets", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, guest))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusForbidden, recorder.Code)
}

func TestTicketList_FilterBySiteCode(t *testing.T) {
	ctx := context.Background()
	operator := createUserWithRole(t, ctx, domain.RoleHD)
	token := tokenFor(t, operator)
	router := newTicketRouter()

	siteCode := shortSiteCode()
	postTicket(t, router, token, createTicketRequest("INC"+uuid.NewString()[:13], siteCode))
	postTicket(t, router, token, createTicketRequest("INC"+uuid.NewString()[:13], shortSiteCode()))

	req := httptest.NewRequest(stdhttp.MethodGet, "/tickets?siteCode="+siteCode, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response PaginatedResponse[TicketViewDTO]
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Len(t, response.Data, 1)
	assert.Equal(t, siteCode, response.Data[0].SiteCode)
	assert.Equal(t, 1, response.Pagination.TotalCount)
	assert.Equal(t, 1, response.Pagination.Page)
	assert.False(t, response.Pagination.HasMore)
}

func TestTicketList_RelatedDetection(t *testing.T) {
	ctx := context.Background()
	operator := createUserWithRole(t, ctx, domain.RoleHD)
	token := tokenFor(t, operator)
	router := newTicketRouter()

	siteCode := shortSiteCode()
	first := createTicketRequest("INC"+uuid.NewString()[:13], siteCode)
	first["jamOpen"] = time.Now().UTC().Add(-72 * time.Hour).Format(time.RFC3339)
	postTicket(t, router, token, first)
	second := postTicket(t, router, token, createTicketRequest("INC"+uuid.NewString()[:13], siteCode))

	req := httptest.NewRequest(stdhttp.MethodGet, "/tickets/"+second.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var view TicketViewDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	assert.True(t, view.Related, "second fault on the same site should flag as related")
}

func TestTicketUpdateStatus_CloseFreezesTTR(t *testing.T) {
	ctx := context.Background()
	operator := createUserWithRole(t, ctx, domain.RoleHD)
	token := tokenFor(t, operator)
	router := newTicketRouter()

	created := postTicket(t, router, token, createTicketRequest("INC"+uuid.NewString()[:13], shortSiteCode()))

	body := bytes.NewBufferString(`{"status":"CLOSED"}`)
	req := httptest.NewRequest(stdhttp.MethodPatch, "/tickets/"+created.ID+"/status", body)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code, recorder.Body.String())

	var closed TicketDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&closed))
	assert.Equal(t, "CLOSED", closed.Status)
	require.NotNil(t, closed.TTRRealHours)
	require.NotNil(t, closed.SisaTTRHours)
	// Opened one hour ago against an eight hour target.
	assert.InDelta(t, 1.0, *closed.TTRRealHours, 0.1)
	assert.Equal(t, "COMPLY", closed.TTRCompliance)

	// Reopening a closed ticket is rejected.
	body = bytes.NewBufferString(`{"status":"ONPROGRESS"}`)
	req = httptest.NewRequest(stdhttp.MethodPatch, "/tickets/"+created.ID+"/status", body)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusConflict, recorder.Code)
}

func TestTicketProgress_AddAndList(t *testing.T) {
	ctx := context.Background()
	operator := createUserWithRole(t, ctx, domain.RoleHD)
	token := tokenFor(t, operator)
	router := newTicketRouter()

	created := postTicket(t, router, token, createTicketRequest("INC"+uuid.NewString()[:13], shortSiteCode()))

	body := bytes.NewBufferString(`{"message":"Team on site, splicing started","statusAfterUpdate":"ONPROGRESS"}`)
	req := httptest.NewRequest(stdhttp.MethodPost, "/tickets/"+created.ID+"/progress", body)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusCreated, recorder.Code, recorder.Body.String())

	var update ProgressUpdateDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&update))
	assert.Equal(t, "Team on site, splicing started", update.Message)
	assert.Equal(t, "hd", update.Source)
	assert.Equal(t, operator.ID.String(), update.AuthorID)
	require.NotNil(t, update.StatusAfterUpdate)
	assert.Equal(t, "ONPROGRESS", *update.StatusAfterUpdate)

	req = httptest.NewRequest(stdhttp.MethodGet, "/tickets/"+created.ID+"/progress", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response struct {
		Data  []ProgressUpdateDTO `json:"data"`
		Count int                 `json:"count"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Equal(t, 1, response.Count)
	assert.Equal(t, update.ID, response.Data[0].ID)
}

func TestTicketWhatsAppLink(t *testing.T) {
	ctx := context.Background()
	operator := createUserWithRole(t, ctx, domain.RoleHD)
	token := tokenFor(t, operator)
	router := newTicketRouter()

	incident := "INC" + uuid.NewString()[:13]
	created := postTicket(t, router, token, createTicketRequest(incident, shortSiteCode()))

	target := fmt.Sprintf("/tickets/%s/whatsapp-link?phone=0812-3456-789", created.ID)
	req := httptest.NewRequest(stdhttp.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response WhatsAppLinkResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.True(t, strings.HasPrefix(response.Link, "https://wa.me/628123456789?text="))
	assert.Contains(t, response.Link, "INC")
}

func TestTicketDelete(t *testing.T) {
	ctx := context.Background()
	admin := createUserWithRole(t, ctx, domain.RoleAdmin)
	token := tokenFor(t, admin)
	router := newTicketRouter()

	created := postTicket(t, router, token, createTicketRequest("INC"+uuid.NewString()[:13], shortSiteCode()))

	req := httptest.NewRequest(stdhttp.MethodDelete, "/tickets/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusNoContent, recorder.Code)

	req = httptest.NewRequest(stdhttp.MethodGet, "/tickets/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusNotFound, recorder.Code)
}
