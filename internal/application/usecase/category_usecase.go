package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-lotes/internal/application/dto"
	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
)

// CategoryUseCase alta y consulta de categorías.
type CategoryUseCase struct {
	txRunner inventory.TxRunner
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(txRunner inventory.TxRunner) *CategoryUseCase {
	return &CategoryUseCase{txRunner: txRunner}
}

// Create crea una categoría con nombre único sin distinguir mayúsculas.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name, err := validName(in.Name)
	if err != nil {
		return nil, err
	}
	cat := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: time.Now().UTC()}
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		existing, err := repos.Categories.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		return repos.Categories.Create(ctx, cat)
	})
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(cat), nil
}

// List devuelve las categorías ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	var cats []*entity.Category
	err := uc.txRunner.View(ctx, func(repos inventory.TxRepos) error {
		var err error
		cats, err = repos.Categories.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, *ToCategoryResponse(c))
	}
	return out, nil
}

// ToCategoryResponse mapea una categoría a su DTO.
func ToCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}
