package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/inventario-lotes/internal/domain/inventory"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func lot(id string, remaining int64, expiry *time.Time, receivedAt time.Time, seq int64) entity.Lot {
	return entity.Lot{
		ID:                id,
		ItemID:            "item-1",
		QuantityReceived:  decimal.NewFromInt(remaining),
		QuantityRemaining: decimal.NewFromInt(remaining),
		ExpiryDate:        expiry,
		ReceivedAt:        receivedAt,
		Seq:               seq,
	}
}

func ids(lots []entity.Lot) []string {
	out := make([]string, len(lots))
	for i, l := range lots {
		out[i] = l.ID
	}
	return out
}

// Lotes con vencimiento [2024-03-01, sin fecha, 2024-01-01] recibidos en ese orden
// se consumen como [2024-01-01, 2024-03-01, sin fecha].
func TestSortFEFO_VencimientoPrimeroSinFechaAlFinal(t *testing.T) {
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	lots := []entity.Lot{
		lot("marzo", 5, date("2024-03-01"), base, 1),
		lot("sin-fecha", 5, nil, base.Add(time.Minute), 2),
		lot("enero", 5, date("2024-01-01"), base.Add(2*time.Minute), 3),
	}

	inventory.SortFEFO(lots)

	assert.Equal(t, []string{"enero", "marzo", "sin-fecha"}, ids(lots))
}

func TestSortFEFO_DesempatePorRecepcionYSecuencia(t *testing.T) {
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	exp := date("2024-06-01")
	lots := []entity.Lot{
		lot("tarde", 1, exp, base.Add(time.Hour), 1),
		lot("mismo-instante-b", 1, exp, base, 7),
		lot("mismo-instante-a", 1, exp, base, 4),
		lot("sin-fecha-2", 1, nil, base.Add(time.Hour), 9),
		lot("sin-fecha-1", 1, nil, base, 8),
	}

	inventory.SortFEFO(lots)

	assert.Equal(t,
		[]string{"mismo-instante-a", "mismo-instante-b", "tarde", "sin-fecha-1", "sin-fecha-2"},
		ids(lots))
}

func TestCompareFEFO_EsDeterministico(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := lot("a", 1, date("2024-02-01"), base, 1)
	b := lot("b", 1, nil, base, 2)

	assert.Equal(t, -1, inventory.CompareFEFO(a, b))
	assert.Equal(t, 1, inventory.CompareFEFO(b, a))
	assert.Equal(t, 0, inventory.CompareFEFO(a, a))
}

func TestActiveFEFO_DescartaLotesAgotados(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	agotado := lot("agotado", 3, date("2024-01-10"), base, 1)
	agotado.QuantityRemaining = decimal.Zero
	lots := []entity.Lot{
		lot("activo-2", 2, nil, base, 3),
		agotado,
		lot("activo-1", 4, date("2024-05-01"), base, 2),
	}

	active := inventory.ActiveFEFO(lots)

	require.Len(t, active, 2)
	assert.Equal(t, []string{"activo-1", "activo-2"}, ids(active))
	assert.Equal(t, "activo-2", lots[0].ID, "ActiveFEFO no debe reordenar el slice original")
}
