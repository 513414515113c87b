package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/keynotes/errors"
	"github.com/johnquangdev/keynotes/internal/adapter/handler"
	"github.com/johnquangdev/keynotes/pkg/jwt"
)

// Echo context keys set by EchoAuth
const (
	ContextKeyClaims  = "claims"
	ContextKeySubject = "subject"
)

// EchoAuth returns an Echo middleware that validates the API token and sets
// "claims" (*jwt.Claims) and "subject" (string) into the Echo context
func EchoAuth(manager *jwt.Manager, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return handler.HandleError(logger, c, errors.ErrUnauthenticated())
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				return handler.HandleError(logger, c, errors.ErrUnauthenticated().WithDetail("reason", "invalid or expired token"))
			}

			c.Set(ContextKeyClaims, claims)
			c.Set(ContextKeySubject, claims.Subject)

			return next(c)
		}
	}
}

// extractToken reads the bearer token, falling back to the access_token cookie
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}
