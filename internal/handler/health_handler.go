package handler

import (
	"net/http"
	"time"

	"leagueops/internal/service"
	"leagueops/pkg/database"
	"leagueops/pkg/logger"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db     *database.PostgresDB
	cache  *service.CacheService
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.PostgresDB, cache *service.CacheService, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}
	status := http.StatusOK

	if err := h.db.Health(ctx); err != nil {
		h.logger.WithError(err).Error("Database health check failed")
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	// Redis is an availability aid, not a dependency; report but stay healthy.
	if err := h.cache.HealthCheck(ctx); err != nil {
		h.logger.WithError(err).Warn("Redis health check failed")
		checks["redis"] = "unavailable"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	respondJSON(w, status, HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Service:   "leagueops",
		Checks:    checks,
	})
}
