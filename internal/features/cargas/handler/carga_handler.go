package handler

import (
	"errors"
	"net/http"

	"logistics-tracker/internal/core/logger"
	"logistics-tracker/internal/features/cargas/domain"
	"logistics-tracker/internal/features/cargas/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CargaHandler handles HTTP requests for cargas.
type CargaHandler struct {
	service ports.CargaService
}

// NewCargaHandler creates a new CargaHandler.
func NewCargaHandler(service ports.CargaService) *CargaHandler {
	return &CargaHandler{
		service: service,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	Message string `json:"message"`
	RayID   string `json:"ray_id,omitempty"`
}

// LinkRequest represents the request body for linking sales orders.
type LinkRequest struct {
	SalesOrders []string `json:"sales_orders"`
}

func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// List godoc
// @Summary List cargas
// @Description Lists all cargas, most recently updated first
// @Tags cargas
// @Produce json
// @Success 200 {array} domain.Carga
// @Failure 500 {object} ErrorResponse
// @Router /cargas [get]
func (h *CargaHandler) List(c *fiber.Ctx) error {
	cargas, err := h.service.List(c.Context())
	if err != nil {
		logger.Get().Error("Failed to list cargas", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(cargas)
}

// Get godoc
// @Summary Get one carga
// @Description Returns the carga with its linked sales orders
// @Tags cargas
// @Produce json
// @Param numero path string true "Carga number"
// @Success 200 {object} domain.Carga
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /cargas/{numero} [get]
func (h *CargaHandler) Get(c *fiber.Ctx) error {
	numeroCarga := c.Params("numero")

	carga, err := h.service.Get(c.Context(), numeroCarga)
	if err != nil {
		if errors.Is(err, domain.ErrCargaNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Message: "carga not found",
				RayID:   rayID(c),
			})
		}

		logger.Get().Error("Failed to get carga",
			zap.String("numero_carga", numeroCarga), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(carga)
}

// Upsert godoc
// @Summary Create or update a carga
// @Description Merges the provided fields over the stored carga, translating the upstream status vocabulary
// @Tags cargas
// @Accept json
// @Produce json
// @Param numero path string true "Carga number"
// @Param update body domain.Update true "Fields to update"
// @Success 200 {object} domain.Carga
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /cargas/{numero} [put]
func (h *CargaHandler) Upsert(c *fiber.Ctx) error {
	numeroCarga := c.Params("numero")

	var update domain.Update
	if err := c.BodyParser(&update); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	carga, err := h.service.Upsert(c.Context(), numeroCarga, update)
	if err != nil {
		logger.Get().Error("Failed to upsert carga",
			zap.String("numero_carga", numeroCarga), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(carga)
}

// LinkSalesOrders godoc
// @Summary Link sales orders to a carga
// @Description Associates the given sales orders with the carga, ignoring duplicates
// @Tags cargas
// @Accept json
// @Produce json
// @Param numero path string true "Carga number"
// @Param request body LinkRequest true "Sales orders to link"
// @Success 200 {object} domain.Carga
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /cargas/{numero}/sos [post]
func (h *CargaHandler) LinkSalesOrders(c *fiber.Ctx) error {
	numeroCarga := c.Params("numero")

	var req LinkRequest
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

	carga, err := h.service.LinkSalesOrders(c.Context(), numeroCarga, req.SalesOrders)
	if err != nil {
		if errors.Is(err, domain.ErrCargaNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Message: "carga not found",
				RayID:   rayID(c),
			})
		}

		logger.Get().Error("Failed to link sales orders",
			zap.String("numero_carga", numeroCarga), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(carga)
}

// UnlinkSalesOrders godoc
// @Summary Unlink sales orders from a carga
// @Description Removes the association between the carga and the given sales orders
// @Tags cargas
// @Accept json
// @Produce json
// @Param numero path string true "Carga number"
// @Param request body LinkRequest true "Sales orders to unlink"
// @Success 200 {object} domain.Carga
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /cargas/{numero}/sos [delete]
func (h *CargaHandler) UnlinkSalesOrders(c *fiber.Ctx) error {
	numeroCarga := c.Params("numero")

	var req LinkRequest
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

	carga, err := h.service.UnlinkSalesOrders(c.Context(), numeroCarga, req.SalesOrders)
	if err != nil {
		if errors.Is(err, domain.ErrCargaNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Message: "carga not found",
				RayID:   rayID(c),
			})
		}

		logger.Get().Error("Failed to unlink sales orders",
			zap.String("numero_carga", numeroCarga), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.JSON(carga)
}

// RegisterRoutes mounts the carga endpoints on the router.
func (h *CargaHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/cargas", h.List)
	router.Get("/cargas/:numero", h.Get)
	router.Put("/cargas/:numero", h.Upsert)
	router.Post("/cargas/:numero/sos", h.LinkSalesOrders)
	router.Delete("/cargas/:numero/sos", h.UnlinkSalesOrders)
}
