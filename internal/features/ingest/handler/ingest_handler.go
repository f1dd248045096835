package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"logistics-tracker/internal/core/logger"
	"logistics-tracker/internal/core/metrics"
	"logistics-tracker/internal/features/ingest/domain"
	"logistics-tracker/internal/features/ingest/ports"
	shipments "logistics-tracker/internal/features/shipments/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IngestHandler handles authenticated push endpoints for the upstream
// automation.
type IngestHandler struct {
	service         ports.IngestService
	token           string
	maxPayloadBytes int
}

// NewIngestHandler creates a new IngestHandler. The token is the shared
// secret pushes must present as a bearer token.
func NewIngestHandler(service ports.IngestService, token string, maxPayloadBytes int) *IngestHandler {
	return &IngestHandler{
		service:         service,
		token:           token,
		maxPayloadBytes: maxPayloadBytes,
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

// authorize validates the bearer token with a constant-time comparison and
// enforces the payload size cap. It returns a non-nil error response when the
// request must be rejected.
func (h *IngestHandler) authorize(c *fiber.Ctx) error {
	auth := c.Get(fiber.HeaderAuthorization)
	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer"))

	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
		metrics.IngestRejectedTotal.WithLabelValues("unauthorized").Inc()
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Message: "Unauthorized",
			RayID:   rayID(c),
		})
	}

	if len(c.Body()) > h.maxPayloadBytes {
		metrics.IngestRejectedTotal.WithLabelValues("payload_too_large").Inc()
		return c.Status(http.StatusRequestEntityTooLarge).JSON(ErrorResponse{
			Message: "Payload too large",
			RayID:   rayID(c),
		})
	}

	return nil
}

// IngestShipment godoc
// @Summary Push a processed shipment
// @Description Upserts a shipment from the upstream automation, sanitizing every free-text field
// @Tags ingest
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body domain.ShipmentPayload true "Shipment payload"
// @Success 200 {object} shipments.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ingest/shipments [post]
func (h *IngestHandler) IngestShipment(c *fiber.Ctx) error {
	if err := h.authorize(c); err != nil {
		return err
	}

	var payload domain.ShipmentPayload
	if err := c.BodyParser(&payload); err != nil {
		metrics.IngestRejectedTotal.WithLabelValues("invalid_payload").Inc()
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	shipment, err := h.service.IngestShipment(c.Context(), payload)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPayload) {
			metrics.IngestRejectedTotal.WithLabelValues("invalid_payload").Inc()
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Message: err.Error(),
				RayID:   rayID(c),
			})
		}

		logger.Get().Error("Failed to ingest shipment", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(shipment)
}

// IngestTracking godoc
// @Summary Push a tracking event
// @Description Appends a tracking event to a shipment and refreshes its current status
// @Tags ingest
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body domain.TrackingPayload true "Tracking event payload"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ingest/tracking [post]
func (h *IngestHandler) IngestTracking(c *fiber.Ctx) error {
	if err := h.authorize(c); err != nil {
		return err
	}

	var payload domain.TrackingPayload
	if err := c.BodyParser(&payload); err != nil {
		metrics.IngestRejectedTotal.WithLabelValues("invalid_payload").Inc()
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	if err := h.service.IngestTracking(c.Context(), payload); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPayload):
			metrics.IngestRejectedTotal.WithLabelValues("invalid_payload").Inc()
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Message: err.Error(),
				RayID:   rayID(c),
			})
		case errors.Is(err, shipments.ErrShipmentNotFound):
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Message: "shipment not found",
				RayID:   rayID(c),
			})
		}

		logger.Get().Error("Failed to ingest tracking event", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// RegisterRoutes mounts the ingest endpoints on the router.
func (h *IngestHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/ingest/shipments", h.IngestShipment)
	router.Post("/ingest/tracking", h.IngestTracking)
}
