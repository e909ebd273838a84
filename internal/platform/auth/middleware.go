package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

// AuthTokenHeader is the legacy header older clients send the session token in.
const AuthTokenHeader = "X-Auth-Token"

// Middleware resolves the bearer token on each request into a user id and
// stores it in the echo context. Requests without a resolvable token get 401.
func Middleware(store TokenStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing auth token")
			}

			userID, err := store.Resolve(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid auth token")
			}

			c.Set(userIDKey, userID)
			c.Set("auth_token", token)
			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimPrefix(h, "Bearer ")
		}
	}
	return c.Request().Header.Get(AuthTokenHeader)
}

// UserID returns the authenticated principal's id from the echo context.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(userIDKey).(uuid.UUID)
	return id, ok
}

// Token returns the raw session token carried by the current request.
func Token(c echo.Context) string {
	t, _ := c.Get("auth_token").(string)
	return t
}
