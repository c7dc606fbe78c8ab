package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type staticVerifier map[string]int64

func (v staticVerifier) VerifyToken(ctx context.Context, token string) (int64, error) {
	if uid, ok := v[token]; ok {
		return uid, nil
	}
	return 0, errors.New("bad token")
}

func runAuth(t *testing.T, header string) int64 {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen int64 = -1
	m := NewAuthMiddleware(staticVerifier{"good": 42})
	err := m.Authenticate(func(c echo.Context) error {
		seen = UserID(c)
		return nil
	})(c)
	assert.NoError(t, err)
	return seen
}

func TestAuthenticate(t *testing.T) {
	assert.Equal(t, int64(42), runAuth(t, "Bearer good"))
	assert.Zero(t, runAuth(t, ""))
	assert.Zero(t, runAuth(t, "Bearer bad"))
	assert.Zero(t, runAuth(t, "Basic good"))
	assert.Zero(t, runAuth(t, "Bearer "))
}

func TestInternalOnly(t *testing.T) {
	e := echo.New()
	e.POST("/hook", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, InternalOnly("s3cret"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hook", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set(InternalTokenHeader, "s3cret")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, 2, time.Minute)
	defer rl.Stop()

	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, rl.RateLimitMiddleware())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
