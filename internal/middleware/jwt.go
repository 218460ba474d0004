package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	authpkg "github.com/reloophq/waste-exchange/api/internal/auth"
)

// JWT validates bearer tokens and stores the organization metadata in the
// request context. The token subject is the numeric organization id.
func JWT(manager *authpkg.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header"})
			}

			claims, err := manager.ParseToken(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			orgID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token subject"})
			}

			c.Set(ContextKeyOrgID, orgID)
			c.Set(ContextKeyOrgEmail, claims.Email)
			c.Set(ContextKeyOrgRole, claims.Role)

			return next(c)
		}
	}
}

// OrgIDFromContext extracts the authenticated organization id.
func OrgIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(ContextKeyOrgID).(int64)
	return id, ok
}
