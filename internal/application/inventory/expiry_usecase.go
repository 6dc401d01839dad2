package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-lotes/internal/application/dto"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
)

// DefaultExpiryWindowDays ventana por defecto del listado de vencimientos.
const DefaultExpiryWindowDays = 30

// MaxExpiryWindowDays ventana máxima aceptada (diez años).
const MaxExpiryWindowDays = 3650

// ExpiryUseCase genera la lista de lotes con stock que vencen dentro de una ventana de días.
// Los lotes ya vencidos se incluyen con días negativos: siguen siendo despachables.
type ExpiryUseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewExpiryUseCase construye el caso de uso de vencimientos.
func NewExpiryUseCase(txRunner TxRunner) *ExpiryUseCase {
	return &ExpiryUseCase{
		txRunner: txRunner,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListExpiring devuelve los lotes activos que vencen en los próximos days días,
// con prioridad 1 para el más urgente. days == 0 usa DefaultExpiryWindowDays;
// fuera de [0, MaxExpiryWindowDays] devuelve domain.ErrInvalidInput.
func (uc *ExpiryUseCase) ListExpiring(ctx context.Context, days int) ([]dto.ExpiringLotDTO, error) {
	if days < 0 || days > MaxExpiryWindowDays {
		return nil, fmt.Errorf("%w: days debe estar entre 0 y %d", domain.ErrInvalidInput, MaxExpiryWindowDays)
	}
	if days == 0 {
		days = DefaultExpiryWindowDays
	}
	today := entity.DateOnly(uc.now())
	limit := today.AddDate(0, 0, days)

	out := []dto.ExpiringLotDTO{}
	err := uc.txRunner.View(ctx, func(repos TxRepos) error {
		cats, err := repos.Categories.List(ctx)
		if err != nil {
			return err
		}
		catNames := make(map[string]string, len(cats))
		for _, c := range cats {
			catNames[c.ID] = c.Name
		}
		items, err := repos.Items.List(ctx, repository.ItemFilter{})
		if err != nil {
			return err
		}
		for _, item := range items {
			lots, err := repos.Lots.ListByItem(ctx, item.ID)
			if err != nil {
				return err
			}
			for _, l := range lots {
				if !l.Active() || l.ExpiryDate == nil || l.ExpiryDate.After(limit) {
					continue
				}
				out = append(out, dto.ExpiringLotDTO{
					LotID:        l.ID,
					ItemID:       item.ID,
					ItemName:     item.Name,
					CategoryName: catNames[item.CategoryID],
					ExpiryDate:   l.ExpiryDate.Format(dto.DateLayout),
					DaysToExpiry: entity.DaysBetween(today, *l.ExpiryDate),
					Remaining:    l.QuantityRemaining,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Primero el vencimiento más cercano; a igual fecha, el lote con más remanente.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DaysToExpiry != b.DaysToExpiry {
			return a.DaysToExpiry < b.DaysToExpiry
		}
		return a.Remaining.GreaterThan(b.Remaining)
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
