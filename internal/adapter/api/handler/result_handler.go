package handler

import (
	"github.com/labstack/echo/v4"

	"matchchat/internal/usecase"
	"matchchat/pkg/errors"
	"matchchat/pkg/response"
	"matchchat/pkg/utils"
)

// ResultRecorder stores a match result. Only metadata backends this service
// owns (the fixture backend) implement it.
type ResultRecorder interface {
	ReportResult(matchID int64, home, away interface{}) error
}

type ResultHandler struct {
	reaper   *usecase.ReaperUseCase
	recorder ResultRecorder
}

// NewResultHandler builds the result hook; recorder may be nil.
func NewResultHandler(reaper *usecase.ReaperUseCase, recorder ResultRecorder) *ResultHandler {
	return &ResultHandler{
		reaper:   reaper,
		recorder: recorder,
	}
}

type reportResultRequest struct {
	HomeScore interface{} `json:"home_score"`
	AwayScore interface{} `json:"away_score"`
}

// ReportResult handles POST /v1/internal/matches/:id/result
func (h *ResultHandler) ReportResult(c echo.Context) error {
	matchID := utils.GetIDParam(c, "id")
	if matchID == 0 {
		return response.Error(c, errors.InvalidMatch("Invalid match", nil))
	}

	var req reportResultRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return response.Error(c, errors.BadRequest("Invalid request body", err))
		}
	}

	if h.recorder != nil && (req.HomeScore != nil || req.AwayScore != nil) {
		if err := h.recorder.ReportResult(matchID, req.HomeScore, req.AwayScore); err != nil {
			return response.Error(c, err)
		}
	}

	purged, err := h.reaper.OnResultReported(c.Request().Context(), matchID)
	if err != nil {
		return response.Error(c, errors.StoreFailure("Could not purge match chat", err))
	}

	return response.Success(c, map[string]interface{}{
		"match_id": matchID,
		"purged":   purged,
	})
}
