package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
)

// LotRepository define el puerto para los lotes de un ítem.
// Usado dentro de transacciones para garantizar consistencia. Los lotes nunca se borran
// individualmente; solo desaparecen con la eliminación de su ítem.
type LotRepository interface {
	// Create persiste el lote y le asigna Seq.
	Create(ctx context.Context, lot *entity.Lot) error
	// ListActiveForUpdate devuelve los lotes con remanente > 0 del ítem, bloqueados para update.
	// El orden no está garantizado: el orden de consumo lo define inventory.SortFEFO.
	ListActiveForUpdate(ctx context.Context, itemID string) ([]entity.Lot, error)
	// ListByItem devuelve todos los lotes del ítem, incluidos los agotados.
	ListByItem(ctx context.Context, itemID string) ([]entity.Lot, error)
	// UpdateRemaining fija el remanente de un lote tras un débito.
	UpdateRemaining(ctx context.Context, lotID string, remaining decimal.Decimal) error
}
