package handler

import (
	"errors"
	"net/http"

	"logistics-tracker/internal/core/logger"
	"logistics-tracker/internal/features/shipments/domain"
	"logistics-tracker/internal/features/shipments/ports"
	"logistics-tracker/internal/features/shipments/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ShipmentHandler handles HTTP requests for shipment listings and admin
// operations.
type ShipmentHandler struct {
	service ports.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(service ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{
		service: service,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	Message string `json:"message"`
	RayID   string `json:"ray_id,omitempty"`
}

// UpdateStatusRequest represents the request body for a manual status update.
type UpdateStatusRequest struct {
	Status      string `json:"status"`
	Localizacao string `json:"localizacao"`
	Observacao  string `json:"observacao"`
}

// DeleteRequest represents the request body for a bulk delete.
type DeleteRequest struct {
	SalesOrders []string `json:"sales_orders"`
}

func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// List godoc
// @Summary List shipments
// @Description Lists shipments with normalized status and SLA position, optionally filtered
// @Tags shipments
// @Produce json
// @Param cliente query string false "Filter by client name (substring)"
// @Param status query string false "Filter by exact current status"
// @Param delivered query boolean false "Filter by delivered flag"
// @Success 200 {array} domain.ShipmentView
// @Failure 500 {object} ErrorResponse
// @Router /shipments [get]
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	filter := domain.ListFilter{
		Cliente: c.Query("cliente"),
		Status:  c.Query("status"),
	}
	if raw := c.Query("delivered"); raw != "" {
		delivered := raw == "true" || raw == "1"
		filter.Delivered = &delivered
	}

	views, err := h.service.List(c.Context(), filter)
	if err != nil {
		logger.Get().Error("Failed to list shipments", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(views)
}

// Get godoc
// @Summary Get one shipment
// @Description Returns the shipment with normalized status and SLA position
// @Tags shipments
// @Produce json
// @Param so path string true "Sales Order"
// @Success 200 {object} domain.ShipmentView
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments/{so} [get]
func (h *ShipmentHandler) Get(c *fiber.Ctx) error {
	salesOrder := c.Params("so")

	view, err := h.service.Get(c.Context(), salesOrder)
	if err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Message: "shipment not found",
				RayID:   rayID(c),
			})
		}

		logger.Get().Error("Failed to get shipment",
			zap.String("sales_order", salesOrder), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(view)
}

// UpdateStatus godoc
// @Summary Update the status of a shipment
// @Description Sets a new status and appends a matching history event
// @Tags shipments
// @Accept json
// @Produce json
// @Param so path string true "Sales Order"
// @Param update body UpdateStatusRequest true "New status"
// @Success 200 {object} domain.ShipmentView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments/{so}/status [patch]
func (h *ShipmentHandler) UpdateStatus(c *fiber.Ctx) error {
	salesOrder := c.Params("so")

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	view, err := h.service.UpdateStatus(c.Context(), salesOrder, req.Status, req.Localizacao, req.Observacao)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyStatus):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Message: "status must not be empty",
				RayID:   rayID(c),
			})
		case errors.Is(err, domain.ErrShipmentNotFound):
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Message: "shipment not found",
				RayID:   rayID(c),
			})
		}

		logger.Get().Error("Failed to update shipment status",
			zap.String("sales_order", salesOrder), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(view)
}

// Delete godoc
// @Summary Delete shipments
// @Description Removes the given sales orders and their history
// @Tags shipments
// @Accept json
// @Produce json
// @Param request body DeleteRequest true "Sales orders to delete"
// @Success 200 {object} map[string]int64
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments [delete]
func (h *ShipmentHandler) Delete(c *fiber.Ctx) error {
	var req DeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}
	if len(req.SalesOrders) == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "sales_orders must not be empty",
			RayID:   rayID(c),
		})
	}

	deleted, err := h.service.Delete(c.Context(), req.SalesOrders)
	if err != nil {
		logger.Get().Error("Failed to delete shipments", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(fiber.Map{"deleted": deleted})
}

// RegisterRoutes mounts the shipment endpoints on the router.
func (h *ShipmentHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/shipments", h.List)
	router.Get("/shipments/:so", h.Get)
	router.Patch("/shipments/:so/status", h.UpdateStatus)
	router.Delete("/shipments", h.Delete)
}
