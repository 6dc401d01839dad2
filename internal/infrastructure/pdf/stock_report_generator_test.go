package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lotes/internal/application/dto"
	"github.com/jhoicas/inventario-lotes/internal/infrastructure/pdf"
)

func TestGenerateStockReport(t *testing.T) {
	exp := "2024-06-01"
	last := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	report := dto.StockReportDTO{
		Title:       "Inventario",
		GeneratedAt: time.Date(2024, 5, 25, 9, 0, 0, 0, time.UTC),
		Groups: []dto.CategoryGroupResponse{
			{
				Category: &dto.CategoryResponse{ID: "c1", Name: "Lácteos"},
				Items: []dto.StockSummaryResponse{
					{ItemID: "i1", Name: "Leche", Balance: decimal.NewFromInt(12), NextExpiry: &exp, LastIssueAt: &last},
				},
			},
			{Items: []dto.StockSummaryResponse{{ItemID: "i2", Name: "Clavos", Balance: decimal.RequireFromString("2.5")}}},
		},
		Expiring: []dto.ExpiringLotDTO{
			{Priority: 1, LotID: "l1", ItemName: "Leche", ExpiryDate: exp, DaysToExpiry: -1, Remaining: decimal.NewFromInt(3)},
		},
	}

	out, err := pdf.NewMarotoStockReportGenerator().GenerateStockReport(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateStockReport_Vacio(t *testing.T) {
	out, err := pdf.NewMarotoStockReportGenerator().GenerateStockReport(context.Background(), dto.StockReportDTO{GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
