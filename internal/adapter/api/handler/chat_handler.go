package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"matchchat/internal/adapter/api/middleware"
	"matchchat/internal/domain/entity"
	"matchchat/internal/usecase"
	"matchchat/pkg/errors"
	"matchchat/pkg/response"
	"matchchat/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type postMessageRequest struct {
	MatchID      int64  `json:"match_id" form:"match_id" validate:"required,gt=0"`
	TournamentID int64  `json:"tournament_id" form:"tournament_id" validate:"gte=0"`
	Body         string `json:"body" form:"body" validate:"max=20000"`
}

// PostMessage handles POST /v1/match-chat/messages
func (h *ChatHandler) PostMessage(c echo.Context) error {
	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.InvalidMatch("Invalid request", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.Post(c.Request().Context(), usecase.PostMessageInput{
		MatchID:      req.MatchID,
		TournamentID: req.TournamentID,
		UserID:       middleware.UserID(c),
		Body:         req.Body,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]interface{}{
		"message": message,
	})
}

// GetMessages handles GET /v1/match-chat/messages
func (h *ChatHandler) GetMessages(c echo.Context) error {
	result, err := h.chatUseCase.Fetch(c.Request().Context(), usecase.FetchMessagesInput{
		MatchID:      utils.GetIDQuery(c, "match_id"),
		TournamentID: utils.GetIDQuery(c, "tournament_id"),
		UserID:       middleware.UserID(c),
		Cursor:       cursorFromQuery(c),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

// GetTournamentChat handles GET /v1/tournaments/:id/chat
func (h *ChatHandler) GetTournamentChat(c echo.Context) error {
	info, err := h.chatUseCase.Channel(c.Request().Context(), utils.GetIDParam(c, "id"), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, info)
}

// cursorFromQuery prefers the explicit after_id/after_ts pair and falls back
// to the single legacy after (or cursor) value.
func cursorFromQuery(c echo.Context) entity.Cursor {
	afterID := strings.TrimSpace(c.QueryParam("after_id"))
	afterTS := strings.TrimSpace(c.QueryParam("after_ts"))
	if afterID != "" || afterTS != "" {
		var cursor entity.Cursor
		cursor.AfterID = parseNonNegative(afterID)
		if ts := parseNonNegative(afterTS); ts > 0 {
			cursor.AfterTime = time.Unix(ts, 0)
		}
		return cursor
	}

	legacy := c.QueryParam("after")
	if strings.TrimSpace(legacy) == "" {
		legacy = c.QueryParam("cursor")
	}
	return entity.LegacyCursor(parseNonNegative(legacy))
}

func parseNonNegative(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
