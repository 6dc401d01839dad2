package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/jhoicas/inventario-lotes/internal/application/dto"
	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
)

// StockReportGenerator puerto para renderizar el reporte de stock (implementado en infrastructure/pdf).
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, report dto.StockReportDTO) ([]byte, error)
}

// ReportUseCase exportaciones: historial de movimientos en CSV y reporte de stock en PDF.
type ReportUseCase struct {
	txRunner  inventory.TxRunner
	ledger    *inventory.LedgerUseCase
	expiry    *inventory.ExpiryUseCase
	generator StockReportGenerator
	title     string
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso. title encabeza el PDF (nombre de la app).
func NewReportUseCase(
	txRunner inventory.TxRunner,
	ledger *inventory.LedgerUseCase,
	expiry *inventory.ExpiryUseCase,
	generator StockReportGenerator,
	title string,
) *ReportUseCase {
	return &ReportUseCase{
		txRunner:  txRunner,
		ledger:    ledger,
		expiry:    expiry,
		generator: generator,
		title:     title,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var movementCSVHeader = []string{"fecha", "tipo", "item", "cantidad", "lote", "nota"}

// ExportMovementsCSV escribe en w todos los movimientos que cumplen q (sin paginar),
// del más reciente al más antiguo. Devuelve la cantidad de filas escritas.
func (uc *ReportUseCase) ExportMovementsCSV(ctx context.Context, w io.Writer, q dto.MovementQuery) (int, error) {
	q.Limit, q.Offset = 0, 0
	filter, err := MovementFilterFromQuery(q)
	if err != nil {
		return 0, err
	}
	filter.Limit = repository.MaxMovementLimit

	cw := csv.NewWriter(w)
	if err := cw.Write(movementCSVHeader); err != nil {
		return 0, err
	}
	rows := 0
	err = uc.txRunner.View(ctx, func(repos inventory.TxRepos) error {
		for {
			page, err := repos.Movements.List(ctx, filter)
			if err != nil {
				return err
			}
			for _, m := range page {
				record := []string{
					m.CreatedAt.Format(time.RFC3339),
					m.Kind,
					m.ItemName,
					m.Quantity.String(),
					m.LotID,
					m.Note,
				}
				if err := cw.Write(record); err != nil {
					return err
				}
				rows++
			}
			if len(page) < filter.Limit {
				return nil
			}
			filter.Offset += len(page)
		}
	})
	if err != nil {
		return rows, err
	}
	cw.Flush()
	return rows, cw.Error()
}

// StockReportPDF genera el PDF con el stock agrupado por categoría y los lotes por vencer.
func (uc *ReportUseCase) StockReportPDF(ctx context.Context) ([]byte, error) {
	groups, err := uc.ledger.ListSummariesByCategory(ctx)
	if err != nil {
		return nil, err
	}
	expiring, err := uc.expiry.ListExpiring(ctx, inventory.DefaultExpiryWindowDays)
	if err != nil {
		return nil, err
	}
	report := dto.StockReportDTO{
		Title:       uc.title,
		GeneratedAt: uc.now(),
		Groups:      make([]dto.CategoryGroupResponse, 0, len(groups)),
		Expiring:    expiring,
	}
	for _, g := range groups {
		report.Groups = append(report.Groups, inventory.ToCategoryGroupResponse(g))
	}
	pdf, err := uc.generator.GenerateStockReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("generar reporte de stock: %w", err)
	}
	return pdf, nil
}
