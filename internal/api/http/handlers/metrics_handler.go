package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/observability"
)

// MetricsHandler exposes the in-memory counters.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Snapshot GET /metrics.
func (h *MetricsHandler) Snapshot(c *fiber.Ctx) error {
	requests, errs, deliveries := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"requests":   requests,
			"errors":     errs,
			"deliveries": deliveries,
		},
	})
}
