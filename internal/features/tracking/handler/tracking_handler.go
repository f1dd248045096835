package handler

import (
	"errors"
	"net/http"

	"logistics-tracker/internal/core/logger"
	"logistics-tracker/internal/features/tracking/domain"
	"logistics-tracker/internal/features/tracking/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TrackingHandler handles HTTP requests for timelines and SLA lookups.
type TrackingHandler struct {
	service ports.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(service ports.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		service: service,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// TimelineResponse wraps the reconstructed timeline of a sales order.
type TimelineResponse struct {
	SalesOrder string                 `json:"sales_order"`
	Timeline   []domain.TimelineEntry `json:"timeline"`
}

// SLAResponse wraps the SLA position of a sales order. SLA is null when no
// expectation applies to the current stage.
type SLAResponse struct {
	SalesOrder string            `json:"sales_order"`
	SLA        *domain.SLAResult `json:"sla"`
}

func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// GetTimeline godoc
// @Summary Get the reconstructed timeline for a shipment
// @Description Merges the shipment and cargo histories into a dense lifecycle timeline with one entry per stage
// @Tags tracking
// @Produce json
// @Param so path string true "Sales Order"
// @Success 200 {object} TimelineResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments/{so}/timeline [get]
func (h *TrackingHandler) GetTimeline(c *fiber.Ctx) error {
	salesOrder := c.Params("so")

	entries, err := h.service.ShipmentTimeline(c.Context(), salesOrder)
	if err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Message: "shipment not found",
				RayID:   rayID(c),
			})
		}

		logger.Get().Error("Failed to build timeline",
			zap.String("sales_order", salesOrder), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(TimelineResponse{SalesOrder: salesOrder, Timeline: entries})
}

// GetSLA godoc
// @Summary Get the SLA position of a shipment
// @Description Evaluates the shipment's current stage against the per-stage expectations
// @Tags tracking
// @Produce json
// @Param so path string true "Sales Order"
// @Success 200 {object} SLAResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments/{so}/sla [get]
func (h *TrackingHandler) GetSLA(c *fiber.Ctx) error {
	salesOrder := c.Params("so")

	result, err := h.service.ShipmentSLA(c.Context(), salesOrder)
	if err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Message: "shipment not found",
				RayID:   rayID(c),
			})
		}

		logger.Get().Error("Failed to compute SLA",
			zap.String("sales_order", salesOrder), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(SLAResponse{SalesOrder: salesOrder, SLA: result})
}

// RegisterRoutes mounts the tracking endpoints on the router.
func (h *TrackingHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/shipments/:so/timeline", h.GetTimeline)
	router.Get("/shipments/:so/sla", h.GetSLA)
}
