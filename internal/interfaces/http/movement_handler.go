package http

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-lotes/internal/application/dto"
	"github.com/jhoicas/inventario-lotes/internal/application/usecase"
	"github.com/jhoicas/inventario-lotes/internal/domain"
)

// MovementHandler consulta y exporta el historial de movimientos.
type MovementHandler struct {
	uc       *usecase.MovementUseCase
	reports  *usecase.ReportUseCase
	validate *Validator
	errs     errorMapper
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *usecase.MovementUseCase, reports *usecase.ReportUseCase, validate *Validator, errs errorMapper) *MovementHandler {
	return &MovementHandler{uc: uc, reports: reports, validate: validate, errs: errs}
}

// List godoc
// @Summary      Historial de movimientos
// @Description  Más recientes primero. end es inclusivo (todo el día).
// @Description  Paginado: sin limit devuelve 100 filas (máximo 1000); page.total trae el total del filtro.
// @Tags         movements
// @Produce      json
// @Param        type     query  string  false  "all, receive o issue"
// @Param        item_id  query  string  false  "ID del ítem"
// @Param        start    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end      query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        q        query  string  false  "Texto en el nombre del ítem o la nota"
// @Param        limit    query  int     false  "Límite"  default(100)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return h.errs.respond(c, err)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar historial a CSV
// @Tags         movements
// @Produce      text/csv
// @Param        type     query  string  false  "all, receive o issue"
// @Param        item_id  query  string  false  "ID del ítem"
// @Param        start    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end      query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        q        query  string  false  "Texto en el nombre del ítem o la nota"
// @Success      200  {string}  string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/export [get]
func (h *MovementHandler) Export(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return h.errs.respond(c, err)
	}
	var buf bytes.Buffer
	n, err := h.reports.ExportMovementsCSV(c.UserContext(), &buf, q)
	if err != nil {
		return h.errs.respond(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos.csv"`)
	c.Set("X-Total-Count", strconv.Itoa(n))
	return c.Send(buf.Bytes())
}

func (h *MovementHandler) parseQuery(c *fiber.Ctx) (dto.MovementQuery, error) {
	var q dto.MovementQuery
	if err := c.QueryParser(&q); err != nil {
		return q, fmt.Errorf("%w: parámetros de consulta: %v", domain.ErrInvalidInput, err)
	}
	return q, h.validate.Struct(q)
}
