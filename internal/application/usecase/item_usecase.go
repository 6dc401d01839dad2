package usecase

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-lotes/internal/application/dto"
	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
)

// ItemUseCase casos de uso del catálogo de ítems. El stock se maneja vía LedgerUseCase.
type ItemUseCase struct {
	txRunner inventory.TxRunner
	now      func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner inventory.TxRunner) *ItemUseCase {
	return &ItemUseCase{
		txRunner: txRunner,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create crea un ítem sin stock. El nombre es único sin distinguir mayúsculas;
// la categoría, si se indica, debe existir.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	name, err := validName(in.Name)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	item := &entity.Item{
		ID:         uuid.New().String(),
		Name:       name,
		CategoryID: in.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		if err := checkCategory(ctx, repos, item.CategoryID); err != nil {
			return err
		}
		existing, err := repos.Items.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		return repos.Items.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	var item *entity.Item
	err := uc.txRunner.View(ctx, func(repos inventory.TxRepos) error {
		var err error
		item, err = repos.Items.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// Update renombra o recategoriza un ítem. Sus lotes y movimientos no cambian.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	var item *entity.Item
	err := uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		var err error
		item, err = repos.Items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			name, err := validName(*in.Name)
			if err != nil {
				return err
			}
			existing, err := repos.Items.GetByName(ctx, name)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != item.ID {
				return domain.ErrDuplicate
			}
			item.Name = name
		}
		if in.CategoryID != nil {
			if err := checkCategory(ctx, repos, *in.CategoryID); err != nil {
				return err
			}
			item.CategoryID = *in.CategoryID
		}
		item.UpdatedAt = uc.now()
		return repos.Items.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Delete elimina el ítem con todos sus lotes y movimientos. Toma el bloqueo del ítem,
// así que espera a que terminen las entradas/salidas en curso sobre él.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		item, err := repos.Items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		return repos.Items.Delete(ctx, id)
	})
}

// validName normaliza el nombre y verifica que no quede vacío ni exceda el máximo.
func validName(name string) (string, error) {
	name = entity.NormalizeName(name)
	if name == "" || utf8.RuneCountInString(name) > entity.MaxNameLength {
		return "", domain.ErrInvalidInput
	}
	return name, nil
}

func checkCategory(ctx context.Context, repos inventory.TxRepos, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	cat, err := repos.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return domain.ErrNotFound
	}
	return nil
}

func toItemResponse(item *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:         item.ID,
		Name:       item.Name,
		CategoryID: item.CategoryID,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}
