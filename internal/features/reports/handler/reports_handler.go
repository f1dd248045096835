package handler

import (
	"net/http"

	"logistics-tracker/internal/core/logger"
	"logistics-tracker/internal/features/reports/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReportsHandler handles HTTP requests for the aggregate dashboards.
type ReportsHandler struct {
	service ports.ReportsService
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(service ports.ReportsService) *ReportsHandler {
	return &ReportsHandler{
		service: service,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	Message string `json:"message"`
	RayID   string `json:"ray_id,omitempty"`
}

func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// StageTiming godoc
// @Summary Per-stage dwell time report
// @Description Aggregates how long shipments spend in each stage, flagging bottlenecks
// @Tags reports
// @Produce json
// @Success 200 {object} domain.StageTimingReport
// @Failure 500 {object} ErrorResponse
// @Router /reports/stage-timing [get]
func (h *ReportsHandler) StageTiming(c *fiber.Ctx) error {
	report, err := h.service.StageTiming(c.Context())
	if err != nil {
		logger.Get().Error("Failed to build stage timing report", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(report)
}

// Critical godoc
// @Summary Critical shipments report
// @Description Summarizes shipments well past their stage SLA and the business-day compliance table
// @Tags reports
// @Produce json
// @Success 200 {object} domain.CriticalReport
// @Failure 500 {object} ErrorResponse
// @Router /reports/critical [get]
func (h *ReportsHandler) Critical(c *fiber.Ctx) error {
	report, err := h.service.CriticalReport(c.Context())
	if err != nil {
		logger.Get().Error("Failed to build critical report", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(report)
}

// Audit godoc
// @Summary Delivery audit report
// @Description Measures on-time delivery rate in business days and the data coverage backing it
// @Tags reports
// @Produce json
// @Success 200 {object} domain.DeliveryAudit
// @Failure 500 {object} ErrorResponse
// @Router /reports/audit [get]
func (h *ReportsHandler) Audit(c *fiber.Ctx) error {
	audit, err := h.service.DeliveryAudit(c.Context())
	if err != nil {
		logger.Get().Error("Failed to build delivery audit", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(audit)
}

// RegisterRoutes mounts the report endpoints on the router.
func (h *ReportsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/reports/stage-timing", h.StageTiming)
	router.Get("/reports/critical", h.Critical)
	router.Get("/reports/audit", h.Audit)
}
