package handlers

import (
	"context"
	"net/http"
	"time"

	"schedulepro/internal/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency that can report its connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and readiness endpoints
type HealthHandlers struct {
	db    Pinger
	cache Pinger
	clock func() time.Time
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(db, cache Pinger) *HealthHandlers {
	return &HealthHandlers{
		db:    db,
		cache: cache,
		clock: time.Now,
	}
}

// HealthStatus is the liveness payload
type HealthStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ReadinessStatus reports the state of each critical dependency
type ReadinessStatus struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// HealthCheck reports that the process is serving requests
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Message:   "SchedulePro API is running",
		Timestamp: h.clock().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	status := ReadinessStatus{Status: "ready", Services: make(map[string]string)}
	checks := map[string]Pinger{"database": h.db, "redis": h.cache}
	for name, dep := range checks {
		if err := dep.Ping(ctx); err != nil {
			logger.FromEcho(c).Warn("readiness check failed", zap.String("service", name), zap.Error(err))
			status.Services[name] = "unhealthy"
			status.Status = "not_ready"
			continue
		}
		status.Services[name] = "healthy"
	}

	code := http.StatusOK
	if status.Status != "ready" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}
