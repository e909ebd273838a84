package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const userRoleKey = "user_role"

// RoleResolver looks up the role of an authenticated user.
type RoleResolver func(ctx context.Context, userID uuid.UUID) (string, error)

// RequireRole returns middleware that allows only users holding one of the
// given roles. The admin role always passes. Must run after Middleware.
func RequireRole(resolve RoleResolver, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserID(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing auth token")
			}

			role, err := resolve(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "role resolution failed")
			}
			c.Set(userRoleKey, role)

			if role == "admin" {
				return next(c)
			}
			for _, required := range roles {
				if role == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// Role returns the resolved role of the current user, if RequireRole ran.
func Role(c echo.Context) string {
	r, _ := c.Get(userRoleKey).(string)
	return r
}
