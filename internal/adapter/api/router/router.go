package router

import (
	"github.com/labstack/echo/v4"

	"matchchat/internal/adapter/api/handler"
	"matchchat/internal/adapter/api/middleware"
)

type Options struct {
	Environment   string
	InternalToken string
}

func Setup(e *echo.Echo, h *handler.Handlers, authMiddleware *middleware.AuthMiddleware, opts Options) {
	SetupHealthRouter(e, h.Health)
	SetupChatRouter(e, h.Chat, authMiddleware)
	SetupInternalRouter(e, h.Result, opts.InternalToken)
	SetupDevRouter(e, h.DevToken, opts.Environment)
}
