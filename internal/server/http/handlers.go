// Package http is the thin route layer over the credential services. It owns
// the password-hashing boundary (bcrypt in, hashes out) and the access JWTs;
// the services below it never see a plaintext password.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/funnelforge/adminauth/internal/common"
	"github.com/funnelforge/adminauth/internal/logging"
	"github.com/funnelforge/adminauth/internal/passwordx"
	"github.com/funnelforge/adminauth/internal/secretx"
	"github.com/funnelforge/adminauth/internal/server/auth"
	"github.com/funnelforge/adminauth/internal/server/models"
)

// refreshSecretBytes is the entropy of a refresh token before hex encoding.
const refreshSecretBytes = 32

// AdminManager is the slice of the admin account service the handlers use.
type AdminManager interface {
	Create(ctx context.Context, email string, passwordHash string) (*models.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}

// SessionManager is the slice of the refresh token service the handlers use.
type SessionManager interface {
	Issue(ctx context.Context, adminUserID string, rawSecret string) error
	Validate(ctx context.Context, rawSecret string) (string, error)
	Revoke(ctx context.Context, rawSecret string) error
}

// ResetManager is the slice of the password reset service the handlers use.
type ResetManager interface {
	Request(ctx context.Context, adminUserID string) (string, error)
	Redeem(ctx context.Context, token string, newPasswordHash string) error
}

// Handler carries the dependencies of the admin auth routes.
type Handler struct {
	admins              AdminManager
	sessions            SessionManager
	resets              ResetManager
	log                 logging.Logger
	jwtSecret           []byte
	accessTokenValidity time.Duration
}

// NewHandler constructs the route handlers.
func NewHandler(admins AdminManager, sessions SessionManager, resets ResetManager, log logging.Logger, jwtSecret []byte, accessTokenValidity time.Duration) *Handler {
	return &Handler{
		admins:              admins,
		sessions:            sessions,
		resets:              resets,
		log:                 log,
		jwtSecret:           jwtSecret,
		accessTokenValidity: accessTokenValidity,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken       string `json:"access_token"`
	RefreshToken      string `json:"refresh_token"`
	MustResetPassword bool   `json:"must_reset_password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type createAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminResponse struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	EmailVerified     bool   `json:"email_verified"`
	MustResetPassword bool   `json:"must_reset_password"`
}

type resetRequestRequest struct {
	Email string `json:"email"`
}

type resetRequestResponse struct {
	ResetToken string `json:"reset_token"`
}

type resetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Login verifies credentials and mints a token pair. Unknown email and wrong
// password produce the same response.
func (h *Handler) Login(c echo.Context) error {
	req := new(loginRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	ctx := c.Request().Context()

	user, err := h.admins.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		h.log.Error(ctx, "login lookup failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	if !passwordx.Compare(user.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	rawSecret, err := secretx.GenerateSecret(refreshSecretBytes)
	if err != nil {
		h.log.Error(ctx, "secret generation failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if err := h.sessions.Issue(ctx, user.ID, rawSecret); err != nil {
		h.log.Error(ctx, "session issue failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	accessToken, err := auth.GenerateToken(user.ID, h.jwtSecret, h.accessTokenValidity)
	if err != nil {
		h.log.Error(ctx, "access token generation failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken:       accessToken,
		RefreshToken:      rawSecret,
		MustResetPassword: user.MustResetPassword,
	})
}

// Refresh exchanges a valid refresh token for a fresh access token.
func (h *Handler) Refresh(c echo.Context) error {
	req := new(refreshRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	ctx := c.Request().Context()

	userID, err := h.sessions.Validate(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredential) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
		}
		h.log.Error(ctx, "session validation failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	accessToken, err := auth.GenerateToken(userID, h.jwtSecret, h.accessTokenValidity)
	if err != nil {
		h.log.Error(ctx, "access token generation failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, refreshResponse{AccessToken: accessToken})
}

// Logout revokes the presented refresh token.
func (h *Handler) Logout(c echo.Context) error {
	req := new(refreshRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	ctx := c.Request().Context()
	if err := h.sessions.Revoke(ctx, req.RefreshToken); err != nil {
		h.log.Error(ctx, "session revoke failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.NoContent(http.StatusNoContent)
}

// CreateAdmin provisions a new admin account. The new account always starts
// with a forced password reset.
func (h *Handler) CreateAdmin(c echo.Context) error {
	req := new(createAdminRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx := c.Request().Context()

	hash, err := passwordx.Hash(req.Password)
	if err != nil {
		h.log.Error(ctx, "password hashing failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	user, err := h.admins.Create(ctx, req.Email, hash)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		h.log.Error(ctx, "admin creation failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusCreated, adminResponse{
		ID:                user.ID,
		Email:             user.Email,
		EmailVerified:     user.EmailVerified,
		MustResetPassword: user.MustResetPassword,
	})
}

// RequestPasswordReset issues a reset token for the admin with the given
// email. The token is returned to the authenticated internal caller, which
// owns out-of-band delivery; it must not be logged on the way. An unknown
// email gets the same 202 as a known one.
func (h *Handler) RequestPasswordReset(c echo.Context) error {
	req := new(resetRequestRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	ctx := c.Request().Context()

	user, err := h.admins.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.JSON(http.StatusAccepted, resetRequestResponse{})
		}
		h.log.Error(ctx, "reset lookup failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	token, err := h.resets.Request(ctx, user.ID)
	if err != nil {
		h.log.Error(ctx, "reset request failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusAccepted, resetRequestResponse{ResetToken: token})
}

// ConfirmPasswordReset redeems a reset token and sets the new password.
// Expired, consumed, and unknown tokens all get the same generic response.
func (h *Handler) ConfirmPasswordReset(c echo.Context) error {
	req := new(resetConfirmRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if req.Token == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token and new password are required"})
	}

	ctx := c.Request().Context()

	hash, err := passwordx.Hash(req.NewPassword)
	if err != nil {
		h.log.Error(ctx, "password hashing failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	if err := h.resets.Redeem(ctx, req.Token, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorExpired) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "link invalid or expired"})
		}
		h.log.Error(ctx, "reset redemption failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.NoContent(http.StatusNoContent)
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
