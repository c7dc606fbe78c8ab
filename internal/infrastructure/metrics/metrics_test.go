package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPurged_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(MessagesPurgedTotal.WithLabelValues(TriggerSweep))
	Purged(TriggerSweep, 0)
	Purged(TriggerSweep, 3)
	assert.Equal(t, before+3, testutil.ToFloat64(MessagesPurgedTotal.WithLabelValues(TriggerSweep)))
}

func TestEchoMiddleware_CountsRequests(t *testing.T) {
	e := echo.New()
	e.Use(EchoMiddleware())
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	counter := HttpRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "200")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
