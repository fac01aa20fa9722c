package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/escalation-service/internal/api/dto"
	"github.com/spec-kit/escalation-service/internal/observability"
	"github.com/spec-kit/escalation-service/internal/service"
)

// MetricsHandler exposes case aggregates and ingest counters.
type MetricsHandler struct {
	service *service.EscalationService
	metrics *observability.Metrics
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(escalationService *service.EscalationService, metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{service: escalationService, metrics: metrics}
}

// Summary GET /metrics/summary.
func (h *MetricsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Metrics(c.Context())
	if err != nil {
		return err
	}
	resp := dto.MetricsResponse{
		Total:         summary.Total,
		ByStatus:      stringKeys(summary.ByStatus),
		ByUrgency:     stringKeys(summary.ByUrgency),
		ByCriticality: stringKeys(summary.ByCriticality),
	}
	return c.JSON(fiber.Map{"data": resp})
}

func stringKeys[K ~string](counts map[K]int) map[string]int {
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[string(k)] = v
	}
	return out
}

// Ingest GET /metrics/ingest.
func (h *MetricsHandler) Ingest(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.IngestCounts()})
}
