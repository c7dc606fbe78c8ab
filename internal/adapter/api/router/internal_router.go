package router

import (
	"github.com/labstack/echo/v4"

	"matchchat/internal/adapter/api/handler"
	"matchchat/internal/adapter/api/middleware"
	"matchchat/pkg/logger"
)

// SetupInternalRouter mounts the result hook. Without a shared secret the
// route stays unregistered.
func SetupInternalRouter(e *echo.Echo, resultHandler *handler.ResultHandler, internalToken string) {
	if resultHandler == nil || internalToken == "" {
		logger.Info("INTERNAL_TOKEN not set, result hook disabled")
		return
	}

	internalGroup := e.Group("/v1/internal")
	internalGroup.Use(middleware.InternalOnly(internalToken))

	internalGroup.POST("/matches/:id/result", resultHandler.ReportResult)
}
