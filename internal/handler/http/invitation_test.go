package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/invitation"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/fixtures"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/handler/http/response"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/repository/memory"
	invitationService "github.com/cmlabs-hris/tenant-invitation-go/internal/service/invitation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendInvitation(ctx context.Context, to, tenantName, invitationLink string) error {
	args := m.Called(ctx, to, tenantName, invitationLink)
	return args.Error(0)
}

type handlerEnv struct {
	router http.Handler
	store  *memory.Store
	email  *mockEmailService
	token  string
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, store.Seed(context.Background(), fixtures.DevelopmentData()))

	emailSvc := new(mockEmailService)
	svc := invitationService.NewInvitationService(
		store.Invitations(),
		store.Tenants(),
		store.Directory(),
		store.Audit(),
		emailSvc,
		invitationService.Config{FrontendURL: "http://localhost:3000", DefaultPageSize: 100},
	)

	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	token, _, err := jwtService.GenerateAccessToken(jwt.Claims{
		UserID:       fixtures.DevAdminUserID,
		Email:        "admin@acme.test",
		AdminTenants: []string{fixtures.DevTenantID},
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	router := NewRouter(logger, RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}, jwtService, NewInvitationHandler(svc))

	return &handlerEnv{router: router, store: store, email: emailSvc, token: token}
}

func (e *handlerEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+e.token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func invitationsPath() string {
	return "/api/v1/tenants/" + fixtures.DevTenantID + "/invitations"
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []invitation.InvitationResponse {
	t.Helper()
	var body struct {
		Success bool                            `json:"success"`
		Data    []invitation.InvitationResponse `json:"data"`
		Meta    response.Meta                   `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.True(t, body.Success)
	return body.Data
}

func TestInvitationHandler_CreateListDelete(t *testing.T) {
	env := newHandlerEnv(t)
	env.email.On("SendInvitation", mock.Anything, "a@b.com", "Acme Corp", mock.Anything).Return(nil)

	rec := env.do(t, http.MethodPost, invitationsPath(), `{"email":"a@b.com","roles":["viewer"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Success bool                       `json:"success"`
		Data    invitation.CreatedResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotEmpty(t, created.Data.ID)
	assert.Equal(t, invitationsPath()+"/"+created.Data.ID, rec.Header().Get("Location"))

	rec = env.do(t, http.MethodPost, invitationsPath(), `{"email":"A@B.com","roles":[]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, invitationsPath()+"?search=a@b", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeList(t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, created.Data.ID, list[0].ID)
	assert.Equal(t, "a@b.com", list[0].Email)
	assert.Equal(t, []string{"viewer"}, list[0].Roles)
	assert.Equal(t, fixtures.DevAdminUserID, list[0].InvitedBy)

	rec = env.do(t, http.MethodDelete, invitationsPath()+"/"+created.Data.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = env.do(t, http.MethodGet, invitationsPath(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeList(t, rec))

	rec = env.do(t, http.MethodDelete, invitationsPath()+"/"+created.Data.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvitationHandler_Create_BadInput(t *testing.T) {
	env := newHandlerEnv(t)

	rec := env.do(t, http.MethodPost, invitationsPath(), `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, invitationsPath(), `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email: not-an-email")

	rec = env.do(t, http.MethodPost, invitationsPath(), `{"email":"member@acme.test","roles":["admin"]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	env.email.AssertNotCalled(t, "SendInvitation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInvitationHandler_Create_EmailFailureIs500(t *testing.T) {
	env := newHandlerEnv(t)
	env.email.On("SendInvitation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	rec := env.do(t, http.MethodPost, invitationsPath(), `{"email":"a@b.com"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "An unexpected error occurred")
	assert.NotContains(t, rec.Body.String(), "smtp down")

	// the record stays
	rec = env.do(t, http.MethodGet, invitationsPath(), "")
	assert.Len(t, decodeList(t, rec), 1)
}

func TestInvitationHandler_List_QueryParams(t *testing.T) {
	env := newHandlerEnv(t)
	env.email.On("SendInvitation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	for _, email := range []string{"u0@b.com", "u1@b.com", "u2@b.com", "other@c.com"} {
		rec := env.do(t, http.MethodPost, invitationsPath(), `{"email":"`+email+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodGet, invitationsPath()+"?search=@b.com&first=1&max=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeList(t, rec)
	require.Len(t, page, 1)
	assert.Equal(t, "u1@b.com", page[0].Email)

	rec = env.do(t, http.MethodGet, invitationsPath()+"?first=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[],"meta":{"first":10,"max":100,"count":0}}`, strings.TrimSpace(rec.Body.String()))

	for _, query := range []string{"?first=abc", "?max=1.5", "?first=-1", "?max=-5"} {
		rec = env.do(t, http.MethodGet, invitationsPath()+query, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestInvitationHandler_UnknownTenantAndID(t *testing.T) {
	env := newHandlerEnv(t)

	// a platform admin passes the tenant check so the lookup itself is exercised
	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	token, _, err := jwtService.GenerateAccessToken(jwt.Claims{UserID: fixtures.DevAdminUserID, IsAdmin: true})
	require.NoError(t, err)
	env.token = token

	rec := env.do(t, http.MethodGet, "/api/v1/tenants/01929b6e-3c1a-7d2e-9f00-0000000000ff/invitations", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/tenants/not-a-uuid/invitations", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, invitationsPath()+"/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvitationHandler_RequiresTenantAdmin(t *testing.T) {
	env := newHandlerEnv(t)

	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	token, _, err := jwtService.GenerateAccessToken(jwt.Claims{UserID: fixtures.DevMemberUserID})
	require.NoError(t, err)
	env.token = token

	rec := env.do(t, http.MethodGet, invitationsPath(), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.token = ""
	rec = env.do(t, http.MethodGet, invitationsPath(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
