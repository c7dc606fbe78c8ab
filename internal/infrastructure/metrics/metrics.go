package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Purge triggers.
const (
	TriggerSweep    = "sweep"
	TriggerResult   = "result"
	TriggerInactive = "inactive"
)

var (
	MessagesPostedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "match_chat_messages_posted_total",
		Help: "Total number of chat messages accepted",
	})
	RequestsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "match_chat_requests_rejected_total",
		Help: "Chat posts and fetches refused, by error code",
	}, []string{"operation", "code"})
	MessagesPurgedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "match_chat_messages_purged_total",
		Help: "Messages removed from the store, by trigger",
	}, []string{"trigger"})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(MessagesPostedTotal, RequestsRejectedTotal, MessagesPurgedTotal, HttpRequestsTotal, HttpRequestDuration)
}

func Rejected(operation, code string) {
	RequestsRejectedTotal.WithLabelValues(operation, code).Inc()
}

func Purged(trigger string, n int64) {
	if n > 0 {
		MessagesPurgedTotal.WithLabelValues(trigger).Add(float64(n))
	}
}

// EchoMiddleware records request counts and latency per route.
func EchoMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			labels := prometheus.Labels{
				"method": c.Request().Method,
				"path":   path,
				"status": strconv.Itoa(c.Response().Status),
			}
			HttpRequestsTotal.With(labels).Inc()
			HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
