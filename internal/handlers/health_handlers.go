package handlers

import (
	"context"
	"net/http"
	"time"

	"stocky/internal/caching"
	"stocky/internal/repositories"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 3 * time.Second

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	store        repositories.StoreRepository
	cacheService caching.CacheService
	version      string
}

func NewHealthHandlers(store repositories.StoreRepository, cacheService caching.CacheService, version string) *HealthHandlers {
	return &HealthHandlers{
		store:        store,
		cacheService: cacheService,
		version:      version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
	Version   string            `json:"version"`
}

// LivenessCheck handles GET /health
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, &HealthStatus{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
	})
}

// ReadinessCheck handles GET /health/ready
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Version:   h.version,
	}

	if err := h.store.Ping(ctx); err != nil {
		health.Services["store"] = "unhealthy"
		health.Status = "not_ready"
	} else {
		health.Services["store"] = "healthy"
	}

	if err := h.cacheService.Ping(ctx); err != nil {
		health.Services["cache"] = "unhealthy"
		health.Status = "not_ready"
	} else {
		health.Services["cache"] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status != "ready" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}
