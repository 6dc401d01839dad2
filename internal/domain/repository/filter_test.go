package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
)

func TestMovementFilter_Validate(t *testing.T) {
	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, 1)

	t.Run("aplica límite por defecto", func(t *testing.T) {
		f := repository.MovementFilter{Text: "  leche "}
		require.NoError(t, f.Validate())
		assert.Equal(t, repository.DefaultMovementLimit, f.Limit)
		assert.Equal(t, "leche", f.Text)
	})
	t.Run("recorta límite máximo", func(t *testing.T) {
		f := repository.MovementFilter{Limit: 50_000}
		require.NoError(t, f.Validate())
		assert.Equal(t, repository.MaxMovementLimit, f.Limit)
	})
	t.Run("tipo desconocido", func(t *testing.T) {
		f := repository.MovementFilter{Kind: "adjust"}
		assert.ErrorIs(t, f.Validate(), domain.ErrInvalidInput)
	})
	t.Run("rango invertido", func(t *testing.T) {
		f := repository.MovementFilter{From: &until, Until: &from}
		assert.ErrorIs(t, f.Validate(), domain.ErrInvalidInput)
	})
	t.Run("offset negativo", func(t *testing.T) {
		f := repository.MovementFilter{Offset: -1}
		assert.ErrorIs(t, f.Validate(), domain.ErrInvalidInput)
	})
}

func TestMovementFilter_Matches(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)
	m := &entity.Movement{
		ItemID: "item-1", ItemName: "Leche Entera", Kind: entity.MovementKindIssue,
		Note: "Pedido cocina", CreatedAt: day.Add(10 * time.Hour),
	}

	cases := []struct {
		name   string
		filter repository.MovementFilter
		want   bool
	}{
		{"sin filtro", repository.MovementFilter{}, true},
		{"ítem distinto", repository.MovementFilter{ItemID: "item-2"}, false},
		{"tipo coincide", repository.MovementFilter{Kind: entity.MovementKindIssue}, true},
		{"tipo no coincide", repository.MovementFilter{Kind: entity.MovementKindReceive}, false},
		{"dentro del día", repository.MovementFilter{From: &day, Until: &next}, true},
		{"hasta es exclusivo", repository.MovementFilter{Until: &day}, false},
		{"texto en nombre", repository.MovementFilter{Text: "leche"}, true},
		{"texto en nota", repository.MovementFilter{Text: "COCINA"}, true},
		{"texto ausente", repository.MovementFilter{Text: "queso"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Matches(m))
		})
	}
}
