package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lotes/internal/application/dto"
	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/application/usecase"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
	"github.com/jhoicas/inventario-lotes/internal/infrastructure/memory"
)

func ptr[T any](v T) *T { return &v }

func newStore() *memory.Store { return memory.New(time.Second) }

func TestItemUseCase_Create(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewItemUseCase(newStore())

	item, err := uc.Create(ctx, dto.CreateItemRequest{Name: "  Leche entera  "})
	require.NoError(t, err)
	assert.Equal(t, "Leche entera", item.Name)
	assert.Empty(t, item.CategoryID)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "LECHE ENTERA"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: strings.Repeat("x", 181)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "Pan", CategoryID: uuid.New().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUseCase_Update(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	uc := usecase.NewItemUseCase(store)
	cats := usecase.NewCategoryUseCase(store)

	cat, err := cats.Create(ctx, dto.CreateCategoryRequest{Name: "Panadería"})
	require.NoError(t, err)
	pan, err := uc.Create(ctx, dto.CreateItemRequest{Name: "Pan"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "Galletas"})
	require.NoError(t, err)

	got, err := uc.Update(ctx, pan.ID, dto.UpdateItemRequest{Name: ptr("Pan integral"), CategoryID: ptr(cat.ID)})
	require.NoError(t, err)
	assert.Equal(t, "Pan integral", got.Name)
	assert.Equal(t, cat.ID, got.CategoryID)

	// Cambiar solo mayúsculas del propio nombre está permitido.
	_, err = uc.Update(ctx, pan.ID, dto.UpdateItemRequest{Name: ptr("PAN INTEGRAL")})
	require.NoError(t, err)

	_, err = uc.Update(ctx, pan.ID, dto.UpdateItemRequest{Name: ptr("galletas")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err = uc.Update(ctx, pan.ID, dto.UpdateItemRequest{CategoryID: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, got.CategoryID)

	_, err = uc.Update(ctx, uuid.New().String(), dto.UpdateItemRequest{Name: ptr("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUseCase_DeleteEnCascada(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	uc := usecase.NewItemUseCase(store)
	ledger := inventory.NewLedgerUseCase(store, inventory.LedgerConfig{}, nil)

	item, err := uc.Create(ctx, dto.CreateItemRequest{Name: "Queso"})
	require.NoError(t, err)
	_, err = ledger.Receive(ctx, inventory.ReceiveInput{ItemID: item.ID, Quantity: decimal.NewFromInt(4)})
	require.NoError(t, err)
	_, err = ledger.Issue(ctx, inventory.IssueInput{ItemID: item.ID, Quantity: decimal.NewFromInt(1)})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, item.ID))

	_, err = uc.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = ledger.GetSummary(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, store.View(ctx, func(r inventory.TxRepos) error {
		movs, err := r.Movements.List(ctx, repository.MovementFilter{ItemID: item.ID})
		require.NoError(t, err)
		assert.Empty(t, movs)
		return nil
	}))

	assert.ErrorIs(t, uc.Delete(ctx, item.ID), domain.ErrNotFound)

	// El nombre queda libre para un ítem nuevo.
	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "queso"})
	require.NoError(t, err)
}

func TestCategoryUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCategoryUseCase(newStore())

	_, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Lácteos"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "bebidas"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "LÁCTEOS"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bebidas", list[0].Name)
	assert.Equal(t, "Lácteos", list[1].Name)
}
