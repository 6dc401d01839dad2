package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-lotes/internal/application/dto"
	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
)

// InventoryHandler maneja entradas y salidas de stock por lotes.
type InventoryHandler struct {
	uc       *inventory.LedgerUseCase
	validate *Validator
	errs     errorMapper
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase, validate *Validator, errs errorMapper) *InventoryHandler {
	return &InventoryHandler{uc: uc, validate: validate, errs: errs}
}

// Receive godoc
// @Summary      Registrar entrada (crea un lote)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveRequest  true  "item_id, quantity (>0), expiry_date opcional (YYYY-MM-DD)"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return h.errs.respond(c, err)
	}
	out, err := h.uc.ReceiveFromRequest(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Issue godoc
// @Summary      Registrar salida (asignación FEFO/FIFO entre lotes)
// @Description  Con la política parcial entrega lo disponible e informa el faltante; con la estricta responde 409 si no alcanza.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueRequest  true  "item_id, quantity (>0)"
// @Success      200   {object}  dto.IssueResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/issue [post]
func (h *InventoryHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return h.errs.respond(c, err)
	}
	out, err := h.uc.IssueFromRequest(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}
