package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"matchchat/pkg/logger"
)

// UserIDKey is the echo context key holding the caller's numeric user id.
const UserIDKey = "uid"

// TokenVerifier turns a bearer token into a user id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (int64, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate resolves the caller and stores the id under UserIDKey. A
// missing or invalid token leaves 0 there; handlers decide what that means.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(UserIDKey, int64(0))

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return next(c)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return next(c)
		}

		uid, err := m.verifier.VerifyToken(c.Request().Context(), parts[1])
		if err != nil {
			logger.Debug("Rejected bearer token: %v", err)
			return next(c)
		}

		c.Set(UserIDKey, uid)
		return next(c)
	}
}

// UserID returns the id set by Authenticate, or 0.
func UserID(c echo.Context) int64 {
	uid, _ := c.Get(UserIDKey).(int64)
	return uid
}
