package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics records request counts, durations and status categories for one service
type HTTPMetrics struct {
	ServiceName string

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	statusCategory *prometheus.CounterVec
	inFlight       prometheus.Gauge
	uploadBytes    prometheus.Histogram
}

// NewHTTPMetrics registers the HTTP collectors on reg
func NewHTTPMetrics(serviceName string, reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)
	return &HTTPMetrics{
		ServiceName: serviceName,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		statusCategory: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category", "method", "path"},
		),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "http_requests_in_flight",
			Help:        "Requests currently being served",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}),
		uploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "http_request_size_bytes",
			Help:        "Declared request body size in bytes",
			ConstLabels: prometheus.Labels{"service": serviceName},
			Buckets:     prometheus.ExponentialBuckets(1024, 4, 10),
		}),
	}
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}

// Middleware creates an Echo middleware function that records HTTP request metrics
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			m.inFlight.Inc()
			defer m.inFlight.Dec()

			if cl := c.Request().ContentLength; cl > 0 {
				m.uploadBytes.Observe(float64(cl))
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			m.requests.WithLabelValues(m.ServiceName, method, path, statusStr).Inc()
			if category := statusCategory(status); category != "" {
				m.statusCategory.WithLabelValues(m.ServiceName, category, method, path).Inc()
			}
			m.duration.WithLabelValues(m.ServiceName, method, path, statusStr).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

// Handler returns an HTTP handler exposing the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
