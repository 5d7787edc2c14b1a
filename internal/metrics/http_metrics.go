package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several servers can coexist in one process.
type Metrics struct {
	ServiceName string

	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	statusCategory *prometheus.CounterVec
	eventsTracked  *prometheus.CounterVec
	eventsDropped  prometheus.Counter
	eventsFlushed  prometheus.Counter
}

// New creates and registers the HTTP and analytics collectors for a service.
func New(serviceName string) *Metrics {
	m := &Metrics{
		ServiceName: serviceName,
		registry:    prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		statusCategory: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category"},
		),
		eventsTracked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_events_tracked_total",
				Help: "Analytics events accepted into the buffer, by event name",
			},
			[]string{"event"},
		),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analytics_events_dropped_total",
			Help: "Analytics events dropped because the buffer was full or the flush failed",
		}),
		eventsFlushed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analytics_events_flushed_total",
			Help: "Analytics events written to the database",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.statusCategory,
		m.eventsTracked,
		m.eventsDropped,
		m.eventsFlushed,
	)
	return m
}

func statusCategory(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	}
	return ""
}

// Middleware records request counts and latencies by route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// let the error handler write the final status before recording it
				c.Error(err)
			}

			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			m.requests.WithLabelValues(m.ServiceName, method, path, statusStr).Inc()
			m.duration.WithLabelValues(m.ServiceName, method, path, statusStr).Observe(time.Since(start).Seconds())
			if category := statusCategory(status); category != "" {
				m.statusCategory.WithLabelValues(m.ServiceName, category).Inc()
			}
			return nil
		}
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) EventTracked(eventName string) {
	m.eventsTracked.WithLabelValues(eventName).Inc()
}

func (m *Metrics) EventsDropped(n int) {
	m.eventsDropped.Add(float64(n))
}

func (m *Metrics) EventsFlushed(n int) {
	m.eventsFlushed.Add(float64(n))
}
