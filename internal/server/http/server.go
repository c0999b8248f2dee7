package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/funnelforge/adminauth/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server wraps an echo instance with the admin auth routes.
type Server struct {
	echo *echo.Echo
	addr string
	log  logging.Logger
}

// NewServer builds the route table. Management routes (admin creation,
// reset requests) require a valid access token; login, refresh and reset
// confirmation are reachable without one.
func NewServer(addr string, h *Handler, jwtSecret []byte, log logging.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/health", h.Health)

	authGroup := e.Group("/admin/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.Refresh)
	authGroup.POST("/logout", h.Logout)
	authGroup.POST("/password/reset/confirm", h.ConfirmPasswordReset)

	mgmt := e.Group("/admin", requireAccessToken(jwtSecret))
	mgmt.POST("/users", h.CreateAdmin)
	mgmt.POST("/auth/password/reset/request", h.RequestPasswordReset)

	return &Server{echo: e, addr: addr, log: log}
}

// Run starts the HTTP listener and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info(ctx, "shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}
