package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-lotes/internal/application/dto"
	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/application/usecase"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
)

// ItemHandler maneja el catálogo de ítems y sus resúmenes de stock.
type ItemHandler struct {
	uc       *usecase.ItemUseCase
	ledger   *inventory.LedgerUseCase
	validate *Validator
	errs     errorMapper
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase, ledger *inventory.LedgerUseCase, validate *Validator, errs errorMapper) *ItemHandler {
	return &ItemHandler{uc: uc, ledger: ledger, validate: validate, errs: errs}
}

// Create godoc
// @Summary      Crear ítem
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return h.errs.respond(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar resúmenes de stock
// @Description  Con group=category devuelve los resúmenes agrupados por categoría.
// @Tags         items
// @Produce      json
// @Param        category_id  query  string  false  "Filtrar por categoría"
// @Param        q            query  string  false  "Texto contenido en el nombre"
// @Param        group        query  string  false  "category"
// @Success      200  {object}  dto.SummaryListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var q dto.ItemQuery
	if err := c.QueryParser(&q); err != nil {
		return h.errs.respond(c, fmt.Errorf("%w: parámetros de consulta: %v", domain.ErrInvalidInput, err))
	}
	if err := h.validate.Struct(q); err != nil {
		return h.errs.respond(c, err)
	}
	if q.Group == "category" {
		groups, err := h.ledger.ListSummariesByCategory(c.UserContext())
		if err != nil {
			return h.errs.respond(c, err)
		}
		out := make([]dto.CategoryGroupResponse, 0, len(groups))
		for _, g := range groups {
			out = append(out, inventory.ToCategoryGroupResponse(g))
		}
		return c.JSON(out)
	}
	summaries, err := h.ledger.ListSummaries(c.UserContext(), repository.ItemFilter{
		CategoryID:   q.CategoryID,
		NameContains: q.Q,
	})
	if err != nil {
		return h.errs.respond(c, err)
	}
	out := dto.SummaryListResponse{Total: len(summaries), Items: make([]dto.StockSummaryResponse, 0, len(summaries))}
	for _, s := range summaries {
		out.Items = append(out.Items, inventory.ToSummaryResponse(s))
	}
	return c.JSON(out)
}

// GetSummary godoc
// @Summary      Resumen de stock de un ítem
// @Tags         items
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.StockSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetSummary(c *fiber.Ctx) error {
	s, err := h.ledger.GetSummary(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(inventory.ToSummaryResponse(*s))
}

// Update godoc
// @Summary      Actualizar ítem
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "Nombre y/o categoría (\"\" la quita)"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return h.errs.respond(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ítem con sus lotes y movimientos
// @Tags         items
// @Param        id   path  string  true  "ID del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListLots godoc
// @Summary      Lotes del ítem en orden de consumo
// @Tags         items
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {array}   dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/lots [get]
func (h *ItemHandler) ListLots(c *fiber.Ctx) error {
	lots, err := h.ledger.ListLots(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, inventory.ToLotResponse(l))
	}
	return c.JSON(out)
}
