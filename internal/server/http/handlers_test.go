package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funnelforge/adminauth/internal/common"
	"github.com/funnelforge/adminauth/internal/logging"
	"github.com/funnelforge/adminauth/internal/passwordx"
	"github.com/funnelforge/adminauth/internal/server/auth"
	"github.com/funnelforge/adminauth/internal/server/models"
)

var testSecret = []byte("test-secret")

type fakeAdmins struct {
	createOut  *models.AdminUser
	createErr  error
	byEmailOut *models.AdminUser
	byEmailErr error
}

func (f *fakeAdmins) Create(ctx context.Context, email, passwordHash string) (*models.AdminUser, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeAdmins) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}

type fakeSessions struct {
	issueErr    error
	issuedUser  string
	issuedRaw   string
	validateOut string
	validateErr error
	revokedRaw  string
}

func (f *fakeSessions) Issue(ctx context.Context, adminUserID, rawSecret string) error {
	f.issuedUser = adminUserID
	f.issuedRaw = rawSecret
	return f.issueErr
}

func (f *fakeSessions) Validate(ctx context.Context, rawSecret string) (string, error) {
	if f.validateErr != nil {
		return "", f.validateErr
	}
	return f.validateOut, nil
}

func (f *fakeSessions) Revoke(ctx context.Context, rawSecret string) error {
	f.revokedRaw = rawSecret
	return nil
}

type fakeResets struct {
	requestOut   string
	requestErr   error
	redeemErr    error
	redeemedTok  string
	redeemedHash string
}

func (f *fakeResets) Request(ctx context.Context, adminUserID string) (string, error) {
	if f.requestErr != nil {
		return "", f.requestErr
	}
	return f.requestOut, nil
}

func (f *fakeResets) Redeem(ctx context.Context, token, newPasswordHash string) error {
	f.redeemedTok = token
	f.redeemedHash = newPasswordHash
	return f.redeemErr
}

func newTestHandler(a *fakeAdmins, s *fakeSessions, r *fakeResets) *Handler {
	log := logging.NewSlogLogger(slog.New(slog.DiscardHandler))
	return NewHandler(a, s, r, log, testSecret, 15*time.Minute)
}

func doJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func TestLogin_Success(t *testing.T) {
	hash, err := passwordx.Hash("pw")
	require.NoError(t, err)

	sessions := &fakeSessions{}
	h := newTestHandler(&fakeAdmins{byEmailOut: &models.AdminUser{
		ID: "u1", Email: "ops@example.com", PasswordHash: hash, MustResetPassword: true,
	}}, sessions, &fakeResets{})

	rec := doJSON(t, h.Login, `{"email":"ops@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.True(t, resp.MustResetPassword)

	assert.Equal(t, "u1", sessions.issuedUser)
	assert.Equal(t, resp.RefreshToken, sessions.issuedRaw)

	userID, err := auth.GetUserIDFromToken(resp.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestLogin_WrongPasswordAndUnknownEmail_SameResponse(t *testing.T) {
	hash, err := passwordx.Hash("pw")
	require.NoError(t, err)

	hWrong := newTestHandler(&fakeAdmins{byEmailOut: &models.AdminUser{
		ID: "u1", PasswordHash: hash,
	}}, &fakeSessions{}, &fakeResets{})
	recWrong := doJSON(t, hWrong.Login, `{"email":"ops@example.com","password":"bad"}`)

	hUnknown := newTestHandler(&fakeAdmins{byEmailErr: common.ErrorNotFound}, &fakeSessions{}, &fakeResets{})
	recUnknown := doJSON(t, hUnknown.Login, `{"email":"ghost@example.com","password":"pw"}`)

	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.JSONEq(t, recWrong.Body.String(), recUnknown.Body.String())
}

func TestRefresh_Success(t *testing.T) {
	h := newTestHandler(&fakeAdmins{}, &fakeSessions{validateOut: "u1"}, &fakeResets{})

	rec := doJSON(t, h.Refresh, `{"refresh_token":"raw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp refreshResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	userID, err := auth.GetUserIDFromToken(resp.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestRefresh_InvalidSession(t *testing.T) {
	h := newTestHandler(&fakeAdmins{}, &fakeSessions{validateErr: common.ErrorInvalidCredential}, &fakeResets{})

	rec := doJSON(t, h.Refresh, `{"refresh_token":"stale"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	sessions := &fakeSessions{}
	h := newTestHandler(&fakeAdmins{}, sessions, &fakeResets{})

	rec := doJSON(t, h.Logout, `{"refresh_token":"raw"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "raw", sessions.revokedRaw)
}

func TestCreateAdmin_Success(t *testing.T) {
	h := newTestHandler(&fakeAdmins{createOut: &models.AdminUser{
		ID: "u1", Email: "new@example.com", EmailVerified: true, MustResetPassword: true,
	}}, &fakeSessions{}, &fakeResets{})

	rec := doJSON(t, h.CreateAdmin, `{"email":"new@example.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp adminResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.ID)
	assert.True(t, resp.MustResetPassword)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestCreateAdmin_Conflict(t *testing.T) {
	h := newTestHandler(&fakeAdmins{createErr: common.ErrorConflict}, &fakeSessions{}, &fakeResets{})

	rec := doJSON(t, h.CreateAdmin, `{"email":"dup@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateAdmin_MissingFields(t *testing.T) {
	h := newTestHandler(&fakeAdmins{}, &fakeSessions{}, &fakeResets{})

	rec := doJSON(t, h.CreateAdmin, `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestPasswordReset_KnownEmail(t *testing.T) {
	h := newTestHandler(&fakeAdmins{byEmailOut: &models.AdminUser{ID: "u1"}},
		&fakeSessions{}, &fakeResets{requestOut: "tok123"})

	rec := doJSON(t, h.RequestPasswordReset, `{"email":"ops@example.com"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp resetRequestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tok123", resp.ResetToken)
}

func TestRequestPasswordReset_UnknownEmail_SameStatus(t *testing.T) {
	h := newTestHandler(&fakeAdmins{byEmailErr: common.ErrorNotFound}, &fakeSessions{}, &fakeResets{})

	rec := doJSON(t, h.RequestPasswordReset, `{"email":"ghost@example.com"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestConfirmPasswordReset_Success(t *testing.T) {
	resets := &fakeResets{}
	h := newTestHandler(&fakeAdmins{}, &fakeSessions{}, resets)

	rec := doJSON(t, h.ConfirmPasswordReset, `{"token":"tok","new_password":"newpw"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, "tok", resets.redeemedTok)
	assert.NotEqual(t, "newpw", resets.redeemedHash, "plaintext must never reach the service")
	assert.True(t, passwordx.Compare(resets.redeemedHash, "newpw"))
}

func TestConfirmPasswordReset_GenericFailure(t *testing.T) {
	hNotFound := newTestHandler(&fakeAdmins{}, &fakeSessions{}, &fakeResets{redeemErr: common.ErrorNotFound})
	recNotFound := doJSON(t, hNotFound.ConfirmPasswordReset, `{"token":"gone","new_password":"pw"}`)

	hExpired := newTestHandler(&fakeAdmins{}, &fakeSessions{}, &fakeResets{redeemErr: common.ErrorExpired})
	recExpired := doJSON(t, hExpired.ConfirmPasswordReset, `{"token":"old","new_password":"pw"}`)

	assert.Equal(t, http.StatusBadRequest, recNotFound.Code)
	assert.Equal(t, http.StatusBadRequest, recExpired.Code)
	assert.JSONEq(t, recNotFound.Body.String(), recExpired.Body.String(),
		"consumed and expired tokens must be indistinguishable")
}

func TestRequireAccessToken(t *testing.T) {
	log := logging.NewSlogLogger(slog.New(slog.DiscardHandler))
	h := NewHandler(&fakeAdmins{createOut: &models.AdminUser{ID: "u1"}}, &fakeSessions{}, &fakeResets{}, log, testSecret, time.Minute)
	srv := NewServer(":0", h, testSecret, log)

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/users", strings.NewReader(`{"email":"a@b.c","password":"pw"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		tok, err := auth.GenerateToken("caller", testSecret, time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/admin/users", strings.NewReader(`{"email":"a@b.c","password":"pw"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/users", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderAuthorization, "Bearer not.a.jwt")
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
