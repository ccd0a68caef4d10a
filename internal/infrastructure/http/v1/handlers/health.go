// Package handlers provides HTTP request handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"ibeer/internal/infrastructure/storage/postgres"
)

// AppName and AppVersion are reported by /health/info.
const (
	AppName    = "ibeer"
	AppVersion = "0.1.0"
)

// HealthCheck is one dependency probed by the readiness endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// DatabaseCheck pings the connection pool.
func DatabaseCheck(pool *postgres.Pool) HealthCheck {
	return HealthCheck{Name: "database", Check: pool.Ping}
}

// CacheCheck pings the Redis server.
func CacheCheck(client *redis.Client) HealthCheck {
	return HealthCheck{
		Name: "cache",
		Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	pool   *postgres.Pool
	checks []HealthCheck
}

// NewHealthHandler creates a new health handler.
// pool may be nil, in which case /health/info omits pool statistics.
func NewHealthHandler(pool *postgres.Pool, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{pool: pool, checks: checks}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[check.Name] = "unhealthy: " + err.Error()
			continue
		}
		results[check.Name] = "healthy"
	}

	body := gin.H{"status": "ok", "checks": results}
	if status != http.StatusOK {
		body["status"] = "error"
	}
	c.JSON(status, body)
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	body := gin.H{
		"app":     AppName,
		"version": AppVersion,
	}
	if h.pool != nil {
		body["database"] = h.pool.Stats()
	}
	c.JSON(http.StatusOK, body)
}
