package repository

import (
	"context"

	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetByID devuelve (nil, nil) si no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate obtiene el ítem y lo bloquea hasta el fin de la unidad de trabajo
	// (SELECT ... FOR UPDATE). Serializa las operaciones que mutan el stock de un mismo ítem.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// GetByName busca por nombre sin distinguir mayúsculas.
	GetByName(ctx context.Context, name string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	// Delete elimina el ítem junto con sus lotes y movimientos.
	Delete(ctx context.Context, id string) error
	// List devuelve los ítems que cumplen el filtro, ordenados por nombre.
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
}
