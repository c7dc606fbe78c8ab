package router

import (
	"github.com/labstack/echo/v4"

	"matchchat/internal/adapter/api/handler"
	"matchchat/internal/adapter/api/middleware"
)

// SetupChatRouter mounts the polling chat API. Anonymous callers pass the
// middleware with user id 0 and are refused by the chat service.
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/v1/match-chat")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("/messages", chatHandler.PostMessage) // POST /v1/match-chat/messages - Post a message
	chatGroup.GET("/messages", chatHandler.GetMessages)  // GET /v1/match-chat/messages - Poll since cursor

	tournamentGroup := e.Group("/v1/tournaments")
	tournamentGroup.Use(authMiddleware.Authenticate)

	tournamentGroup.GET("/:id/chat", chatHandler.GetTournamentChat) // GET /v1/tournaments/:id/chat - Which match chat to show
}
