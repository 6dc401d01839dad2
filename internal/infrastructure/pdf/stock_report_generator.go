// Package pdf genera el reporte de stock en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                    │  Fecha de generación    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR CATEGORÍA: Ítem | Saldo | Próx. venc. | Últ. salida    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR VENCER: Prioridad | Ítem | Vence | Días | Remanente     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-lotes/internal/application/dto"
	"github.com/jhoicas/inventario-lotes/internal/application/usecase"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ usecase.StockReportGenerator = (*MarotoStockReportGenerator)(nil)

// MarotoStockReportGenerator implementa usecase.StockReportGenerator usando Maroto v2.
type MarotoStockReportGenerator struct{}

// NewMarotoStockReportGenerator construye el generador.
func NewMarotoStockReportGenerator() *MarotoStockReportGenerator {
	return &MarotoStockReportGenerator{}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoStockReportGenerator) GenerateStockReport(_ context.Context, report dto.StockReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock", true).
		WithAuthor(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("STOCK POR CATEGORÍA"))
	for _, g := range report.Groups {
		m.AddRows(groupRows(g)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionRow("LOTES POR VENCER"))
	m.AddRows(expiringRows(report.Expiring)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report dto.StockReportDTO) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(nonEmpty(report.Title, "Inventario"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de stock por lotes", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func sectionRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
	))
}

// groupRows: nombre de la categoría, cabecera y una fila por ítem.
func groupRows(g dto.CategoryGroupResponse) []core.Row {
	name := "Sin categoría"
	if g.Category != nil {
		name = g.Category.Name
	}
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s (%d)", name, len(g.Items)), props.Text{Style: fontstyle.Bold, Size: 8, Top: 2}),
		)),
		tableHeader(
			cell{"Ítem", 5, align.Left},
			cell{"Saldo", 2, align.Right},
			cell{"Próx. vencimiento", 2, align.Center},
			cell{"Última salida", 3, align.Center},
		),
	}
	for _, s := range g.Items {
		lastIssue := "-"
		if s.LastIssueAt != nil {
			lastIssue = s.LastIssueAt.Format("02/01/2006")
		}
		rows = append(rows, row.New(6).Add(
			col.New(5).Add(text.New(s.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(s.Balance.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(dateOrDash(s.NextExpiry), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(lastIssue, props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return rows
}

func expiringRows(lots []dto.ExpiringLotDTO) []core.Row {
	if len(lots) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("No hay lotes por vencer.", props.Text{Size: 8, Top: 1, Color: colorGray}),
		))}
	}
	rows := []core.Row{tableHeader(
		cell{"#", 1, align.Center},
		cell{"Ítem", 5, align.Left},
		cell{"Vence", 2, align.Center},
		cell{"Días", 1, align.Center},
		cell{"Remanente", 3, align.Right},
	)}
	for _, l := range lots {
		days := props.Text{Size: 8, Align: align.Center, Top: 1}
		if l.DaysToExpiry < 0 {
			days.Color = colorAlert
			days.Style = fontstyle.Bold
		}
		rows = append(rows, row.New(6).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.Priority), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(l.ItemName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.ExpiryDate, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprint(l.DaysToExpiry), days)),
			col.New(3).Add(text.New(l.Remaining.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

type cell struct {
	label string
	size  int
	align align.Type
}

func tableHeader(cells ...cell) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorGray, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func dateOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
