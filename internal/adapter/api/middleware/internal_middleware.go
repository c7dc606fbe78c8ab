package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"

	"matchchat/pkg/errors"
	"matchchat/pkg/response"
)

// InternalTokenHeader carries the shared secret of service-to-service hooks.
const InternalTokenHeader = "X-Internal-Token"

// InternalOnly admits requests presenting the configured shared secret.
func InternalOnly(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := c.Request().Header.Get(InternalTokenHeader)
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				return response.Error(c, errors.Unauthorized("Invalid internal token", nil))
			}
			return next(c)
		}
	}
}
