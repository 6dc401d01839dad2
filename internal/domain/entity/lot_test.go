package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
)

func TestDaysBetween(t *testing.T) {
	d := func(s string) time.Time {
		v, err := time.Parse(time.DateOnly, s)
		if err != nil {
			t.Fatal(err)
		}
		return v
	}
	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"mismo día con horas distintas", d("2026-03-01").Add(23 * time.Hour), d("2026-03-01"), 0},
		{"día siguiente aunque falte una hora", d("2026-03-01").Add(23 * time.Hour), d("2026-03-02"), 1},
		{"vencido", d("2026-03-10"), d("2026-03-08"), -2},
		{"año bisiesto", d("2028-02-28"), d("2028-03-01"), 2},
		{"fecha lejana no satura", d("2026-01-01"), d("9999-12-31"), 2912442},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entity.DaysBetween(tt.from, tt.to))
		})
	}
}

func TestValidQuantity(t *testing.T) {
	assert.True(t, entity.ValidQuantity(decimal.RequireFromString("0.000001")))
	assert.True(t, entity.ValidQuantity(decimal.RequireFromString("5.100000000")))
	assert.False(t, entity.ValidQuantity(decimal.RequireFromString("0.0000001")))
	assert.False(t, entity.ValidQuantity(decimal.Zero))
	assert.False(t, entity.ValidQuantity(decimal.NewFromInt(-1)))
}
