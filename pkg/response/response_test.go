package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "matchchat/pkg/errors"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, Error(c, err))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestError_AppError(t *testing.T) {
	rec, resp := render(t, apperrors.NotAParticipant())
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, apperrors.CodeNotAParticipant, resp.Error.Code)
}

func TestError_RateLimitedSetsRetryAfter(t *testing.T) {
	rec, resp := render(t, apperrors.RateLimited())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, apperrors.CodeRateLimited, resp.Error.Code)
}

func TestError_StoreFailureHidesCause(t *testing.T) {
	rec, resp := render(t, apperrors.StoreFailure("Could not save message", errors.New("disk on fire at /var/db")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
	assert.Equal(t, "Could not save message", resp.Error.Message)
}

func TestError_ValidationOnMatchID(t *testing.T) {
	type req struct {
		MatchID int64 `validate:"required,gt=0"`
	}
	err := validator.New().Struct(&req{})

	rec, resp := render(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperrors.CodeInvalidMatch, resp.Error.Code)
}

func TestError_Unknown(t *testing.T) {
	rec, resp := render(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}
