package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/application/usecase"
	"github.com/jhoicas/inventario-lotes/internal/domain"
)

// ReportHandler reportes de stock y vencimientos.
type ReportHandler struct {
	reports *usecase.ReportUseCase
	expiry  *inventory.ExpiryUseCase
	errs    errorMapper
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *usecase.ReportUseCase, expiry *inventory.ExpiryUseCase, errs errorMapper) *ReportHandler {
	return &ReportHandler{reports: reports, expiry: expiry, errs: errs}
}

// StockPDF godoc
// @Summary      Reporte de stock en PDF
// @Description  Saldos agrupados por categoría y lotes próximos a vencer.
// @Tags         reports
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/stock [get]
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	pdf, err := h.reports.StockReportPDF(c.UserContext())
	if err != nil {
		return h.errs.respond(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="reporte-stock.pdf"`)
	return c.Send(pdf)
}

// Expiring godoc
// @Summary      Lotes próximos a vencer
// @Description  Incluye lotes ya vencidos con saldo. Orden: días restantes y luego mayor saldo.
// @Tags         reports
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (0 a 3650)"  default(30)
// @Success      200  {array}   dto.ExpiringLotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/expiring [get]
func (h *ReportHandler) Expiring(c *fiber.Ctx) error {
	days := 0
	if raw := c.Query("days"); raw != "" {
		var err error
		if days, err = parseDays(raw); err != nil {
			return h.errs.respond(c, err)
		}
	}
	out, err := h.expiry.ListExpiring(c.UserContext(), days)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

func parseDays(raw string) (int, error) {
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: days debe ser un entero", domain.ErrInvalidInput)
	}
	return days, nil
}
