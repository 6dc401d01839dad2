package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
	"github.com/jhoicas/inventario-lotes/internal/infrastructure/memory"
)

func newItem(name string) *entity.Item {
	now := time.Now().UTC()
	return &entity.Item{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
}

func seedItem(t *testing.T, s *memory.Store, name string) *entity.Item {
	t.Helper()
	item := newItem(name)
	require.NoError(t, s.Run(context.Background(), func(r inventory.TxRepos) error {
		return r.Items.Create(context.Background(), item)
	}))
	return item
}

func TestStore_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.New(time.Second)
	item := seedItem(t, s, "Leche")
	boom := errors.New("boom")

	err := s.Run(ctx, func(r inventory.TxRepos) error {
		lot, err := entity.NewLot(item.ID, decimal.NewFromInt(5), nil, time.Now())
		require.NoError(t, err)
		require.NoError(t, r.Lots.Create(ctx, lot))
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, s.View(ctx, func(r inventory.TxRepos) error {
		lots, err := r.Lots.ListByItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Empty(t, lots)
		return nil
	}))
}

func TestStore_LeeSusPropiasEscrituras(t *testing.T) {
	ctx := context.Background()
	s := memory.New(time.Second)
	item := seedItem(t, s, "Pan")

	require.NoError(t, s.Run(ctx, func(r inventory.TxRepos) error {
		lot, err := entity.NewLot(item.ID, decimal.NewFromInt(5), nil, time.Now())
		require.NoError(t, err)
		require.NoError(t, r.Lots.Create(ctx, lot))
		require.NoError(t, r.Lots.UpdateRemaining(ctx, lot.ID, decimal.NewFromInt(2)))

		active, err := r.Lots.ListActiveForUpdate(ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.True(t, active[0].QuantityRemaining.Equal(decimal.NewFromInt(2)))
		return nil
	}))
}

func TestStore_NombreDuplicadoSinMayusculas(t *testing.T) {
	ctx := context.Background()
	s := memory.New(time.Second)
	seedItem(t, s, "Arroz")

	err := s.Run(ctx, func(r inventory.TxRepos) error {
		return r.Items.Create(ctx, newItem("arroz"))
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = s.Run(ctx, func(r inventory.TxRepos) error {
		return r.Items.Create(ctx, newItem("ARROZ"))
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestStore_DeleteEnCascada(t *testing.T) {
	ctx := context.Background()
	s := memory.New(time.Second)
	item := seedItem(t, s, "Queso")
	other := seedItem(t, s, "Yogur")

	for _, id := range []string{item.ID, other.ID} {
		require.NoError(t, s.Run(ctx, func(r inventory.TxRepos) error {
			lot, err := entity.NewLot(id, decimal.NewFromInt(3), nil, time.Now())
			require.NoError(t, err)
			require.NoError(t, r.Lots.Create(ctx, lot))
			mov, err := entity.NewMovement(id, entity.MovementKindReceive, decimal.NewFromInt(3), lot.ID, "", time.Now())
			require.NoError(t, err)
			return r.Movements.Create(ctx, mov)
		}))
	}

	require.NoError(t, s.Run(ctx, func(r inventory.TxRepos) error {
		return r.Items.Delete(ctx, item.ID)
	}))

	require.NoError(t, s.View(ctx, func(r inventory.TxRepos) error {
		got, err := r.Items.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		lots, err := r.Lots.ListByItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Empty(t, lots)

		movs, err := r.Movements.List(ctx, repository.MovementFilter{})
		require.NoError(t, err)
		require.Len(t, movs, 1)
		assert.Equal(t, other.ID, movs[0].ItemID)
		assert.Equal(t, "Yogur", movs[0].ItemName)
		return nil
	}))

	err := s.Run(ctx, func(r inventory.TxRepos) error {
		return r.Items.Delete(ctx, item.ID)
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_BloqueoOcupadoDevuelveContention(t *testing.T) {
	ctx := context.Background()
	s := memory.New(50 * time.Millisecond)
	item := seedItem(t, s, "Huevos")

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx, func(r inventory.TxRepos) error {
			_, err := r.Items.GetForUpdate(ctx, item.ID)
			close(locked)
			<-done
			return err
		})
	}()
	<-locked

	err := s.Run(ctx, func(r inventory.TxRepos) error {
		_, err := r.Items.GetForUpdate(ctx, item.ID)
		return err
	})
	close(done)
	assert.ErrorIs(t, err, domain.ErrContention)
}

func TestStore_ViewEsSoloLectura(t *testing.T) {
	ctx := context.Background()
	s := memory.New(time.Second)

	err := s.View(ctx, func(r inventory.TxRepos) error {
		return r.Items.Create(ctx, newItem("Sal"))
	})
	require.Error(t, err)

	require.NoError(t, s.View(ctx, func(r inventory.TxRepos) error {
		items, err := r.Items.List(ctx, repository.ItemFilter{})
		require.NoError(t, err)
		assert.Empty(t, items)
		return nil
	}))
}

func TestStore_MovimientosMasRecientesPrimero(t *testing.T) {
	ctx := context.Background()
	s := memory.New(time.Second)
	item := seedItem(t, s, "Café")
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Run(ctx, func(r inventory.TxRepos) error {
		for i, note := range []string{"primero", "segundo", "tercero"} {
			mov, err := entity.NewMovement(item.ID, entity.MovementKindIssue, decimal.NewFromInt(1), "lot", note, at.Add(time.Duration(i/2)*time.Hour))
			require.NoError(t, err)
			require.NoError(t, r.Movements.Create(ctx, mov))
		}
		return nil
	}))

	require.NoError(t, s.View(ctx, func(r inventory.TxRepos) error {
		movs, err := r.Movements.List(ctx, repository.MovementFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, movs, 2)
		assert.Equal(t, "tercero", movs[0].Note)
		assert.Equal(t, "segundo", movs[1].Note)

		n, err := r.Movements.Count(ctx, repository.MovementFilter{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		last, err := r.Movements.LastAt(ctx, item.ID, entity.MovementKindIssue)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.True(t, last.Equal(at.Add(time.Hour)))

		none, err := r.Movements.LastAt(ctx, item.ID, entity.MovementKindReceive)
		require.NoError(t, err)
		assert.Nil(t, none)
		return nil
	}))
}
