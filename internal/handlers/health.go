package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by store.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the store is reachable.
type HealthHandler struct {
	store   Pinger
	timeout time.Duration
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store, timeout: 2 * time.Second}
}

// CheckHealth returns the health status of all subsystems.
// GET /health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status, overall, code := "ok", "healthy", http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		status = "error: " + err.Error()
		overall, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":  overall,
		"service": "taskhub",
		"components": gin.H{
			"database": status,
		},
	})
}
