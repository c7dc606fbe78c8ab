package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthInfo names the backends this instance was started with.
type HealthInfo struct {
	MessageStore    string
	MetadataBackend string
	AuthProvider    string
}

type HealthHandler struct {
	info    HealthInfo
	started time.Time
}

func NewHealthHandler(info HealthInfo) *HealthHandler {
	return &HealthHandler{
		info:    info,
		started: time.Now(),
	}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":           "Server is running",
		"time":             time.Now().UTC().Format(time.RFC3339),
		"uptime":           time.Since(h.started).Round(time.Second).String(),
		"message_store":    h.info.MessageStore,
		"metadata_backend": h.info.MetadataBackend,
		"auth_provider":    h.info.AuthProvider,
	})
}
