// Package handler exposes the batch pipeline over HTTP for operators.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sujal-debug/Policy-IQ/internal/claims"
	"github.com/sujal-debug/Policy-IQ/platform/logger"
)

// Handler handles HTTP requests for batch runs.
type Handler struct {
	runner   *claims.Runner
	deadline time.Duration
	log      *logger.Logger
}

// New creates a new batch handler.
func New(runner *claims.Runner, deadline time.Duration, log *logger.Logger) *Handler {
	return &Handler{runner: runner, deadline: deadline, log: log}
}

// RegisterRoutes registers the batch routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/run", h.Run)
	rg.GET("/last", h.Last)
}

// Run handles POST /api/v1/batch/run: executes one batch synchronously
// and returns its outcomes.
func (h *Handler) Run(c *gin.Context) {
	ctx := c.Request.Context()
	if h.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.deadline)
		defer cancel()
	}

	outcomes, err := h.runner.RunOnce(ctx)
	if err != nil {
		h.log.Error("manual batch run failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "batch run failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(outcomes),
		"outcomes": outcomes,
	})
}

// Last handles GET /api/v1/batch/last: returns the most recent batch's
// outcomes without running anything.
func (h *Handler) Last(c *gin.Context) {
	outcomes, ranAt := h.runner.LastResults()
	c.JSON(http.StatusOK, gin.H{
		"count":    len(outcomes),
		"outcomes": outcomes,
		"ranAt":    ranAt,
	})
}
