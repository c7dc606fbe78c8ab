package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"matchchat/pkg/errors"
	"matchchat/pkg/response"
	"matchchat/pkg/utils"
)

// TokenIssuer mints bearer tokens for a user id.
type TokenIssuer interface {
	GenerateToken(ctx context.Context, userID int64) (string, error)
}

type DevTokenHandler struct {
	issuer TokenIssuer
}

func NewDevTokenHandler(issuer TokenIssuer) *DevTokenHandler {
	return &DevTokenHandler{
		issuer: issuer,
	}
}

// GenerateToken handles GET /_dev/token?user_id=N
func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	userID := utils.GetIDQuery(c, "user_id")
	if userID == 0 {
		return response.Error(c, errors.BadRequest("user_id must be a positive integer", nil))
	}

	token, err := h.issuer.GenerateToken(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to generate token", err))
	}

	return response.Success(c, map[string]interface{}{
		"token":   token,
		"user_id": userID,
	})
}
