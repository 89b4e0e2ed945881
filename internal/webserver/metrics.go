package webserver

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// requestCounter counts all HTTP requests with labels
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// requestDuration records request duration in seconds
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	registerOnce sync.Once
)

// httpMetrics records request metrics for one service name
type httpMetrics struct {
	serviceName string
}

func newHTTPMetrics(serviceName string) *httpMetrics {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestCounter, requestDuration)
	})
	return &httpMetrics{serviceName: serviceName}
}

// Middleware creates an Echo middleware function that records HTTP request metrics
func (m *httpMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			requestCounter.WithLabelValues(m.serviceName, method, path, status).Inc()
			requestDuration.WithLabelValues(m.serviceName, method, path, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

func prometheusHandler() http.Handler {
	return promhttp.Handler()
}
