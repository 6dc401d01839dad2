package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
)

// MovementRepository define el puerto del historial de movimientos (solo inserción).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// List devuelve los movimientos del filtro, del más reciente al más antiguo
	// (a igual fecha, el insertado después primero).
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// Count devuelve el total de movimientos del filtro, ignorando Limit y Offset.
	Count(ctx context.Context, filter MovementFilter) (int, error)
	// LastAt devuelve la fecha del último movimiento del tipo indicado, o nil si no hay.
	LastAt(ctx context.Context, itemID, kind string) (*time.Time, error)
}
