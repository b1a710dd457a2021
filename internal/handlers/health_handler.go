package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadinessChecker reports whether the ledger has been loaded.
type ReadinessChecker interface {
	Ready() bool
}

// HealthHandler reports liveness and whether the ledger is loaded.
type HealthHandler struct {
	store ReadinessChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store ReadinessChecker) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health handles the health check
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]any
// @Failure     503 {object} map[string]any "Ledger not loaded yet"
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if !h.store.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading", "ready": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "ready": true})
}
