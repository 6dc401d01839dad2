package usecase

import (
	"context"

	"github.com/jhoicas/inventario-lotes/internal/application/dto"
	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
)

// MovementUseCase consulta del historial de movimientos (solo lectura).
type MovementUseCase struct {
	txRunner inventory.TxRunner
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner inventory.TxRunner) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner}
}

// List devuelve una página del historial, del movimiento más reciente al más antiguo.
// Sin limit se devuelven repository.DefaultMovementLimit filas; Page.Total trae el total del filtro.
func (uc *MovementUseCase) List(ctx context.Context, q dto.MovementQuery) (*dto.MovementListResponse, error) {
	filter, err := MovementFilterFromQuery(q)
	if err != nil {
		return nil, err
	}
	var (
		movs  []*entity.Movement
		total int
	)
	err = uc.txRunner.View(ctx, func(repos inventory.TxRepos) error {
		var err error
		if movs, err = repos.Movements.List(ctx, filter); err != nil {
			return err
		}
		total, err = repos.Movements.Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &dto.MovementListResponse{
		Movements: make([]dto.MovementResponse, 0, len(movs)),
		Page:      dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}
	for _, m := range movs {
		out.Movements = append(out.Movements, inventory.ToMovementResponse(m))
	}
	return out, nil
}

// MovementFilterFromQuery traduce los parámetros HTTP al filtro del repositorio.
// type=all equivale a sin filtro de tipo; end es inclusivo (cubre todo ese día en UTC).
func MovementFilterFromQuery(q dto.MovementQuery) (repository.MovementFilter, error) {
	f := repository.MovementFilter{
		ItemID: q.ItemID,
		Text:   q.Q,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	switch q.Type {
	case "", "all":
	case entity.MovementKindReceive, entity.MovementKindIssue:
		f.Kind = q.Type
	default:
		return f, domain.ErrInvalidInput
	}
	from, err := inventory.ParseDate(q.Start)
	if err != nil {
		return f, err
	}
	f.From = from
	end, err := inventory.ParseDate(q.End)
	if err != nil {
		return f, err
	}
	if end != nil {
		until := end.AddDate(0, 0, 1)
		f.Until = &until
	}
	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}
