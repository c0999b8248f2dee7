package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/funnelforge/adminauth/internal/server/auth"
)

// userIDContextKey is the echo context key the auth middleware stores the
// caller's admin user id under.
const userIDContextKey = "admin_user_id"

// requireAccessToken guards management routes: it expects an
// "Authorization: Bearer <jwt>" header signed with the server secret and
// puts the admin user id on the request context.
func requireAccessToken(secretKey []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			userID, err := auth.GetUserIDFromToken(token, secretKey)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(userIDContextKey, userID)
			return next(c)
		}
	}
}
