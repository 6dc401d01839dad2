package inventory

import (
	"context"

	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
)

// TxRepos repositorios atados a una misma unidad de trabajo.
type TxRepos struct {
	Items      repository.ItemRepository
	Categories repository.CategoryRepository
	Lots       repository.LotRepository
	Movements  repository.MovementRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de lotes.
type TxRunner interface {
	// Run abre una unidad de trabajo de escritura: Commit si fn devuelve nil, Rollback si no.
	// Los conflictos de concurrencia se devuelven envueltos en domain.ErrContention.
	Run(ctx context.Context, fn func(repos TxRepos) error) error
	// View abre una unidad de trabajo de solo lectura sobre una foto consistente del estado confirmado.
	View(ctx context.Context, fn func(repos TxRepos) error) error
}
