//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
	"github.com/jhoicas/inventario-lotes/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-lotes/pkg/config"
)

func startPostgres(t *testing.T) *postgres.TxRunner {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("lotes_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	m, err := postgres.NewMigrator(pool, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return postgres.NewTxRunner(pool, 2*time.Second)
}

func TestPostgres_LibroDeLotes(t *testing.T) {
	ctx := context.Background()
	runner := startPostgres(t)
	ledger := inventory.NewLedgerUseCase(runner, inventory.LedgerConfig{MaxRetries: 5}, nil)

	now := time.Now().UTC()
	item := &entity.Item{ID: uuid.New().String(), Name: "Leche", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, runner.Run(ctx, func(r inventory.TxRepos) error { return r.Items.Create(ctx, item) }))

	err := runner.Run(ctx, func(r inventory.TxRepos) error {
		return r.Items.Create(ctx, &entity.Item{ID: uuid.New().String(), Name: "LECHE", CreatedAt: now, UpdatedAt: now})
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	exp := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	first, err := ledger.Receive(ctx, inventory.ReceiveInput{ItemID: item.ID, Quantity: decimal.NewFromInt(5), Expiry: &exp})
	require.NoError(t, err)
	_, err = ledger.Receive(ctx, inventory.ReceiveInput{ItemID: item.ID, Quantity: decimal.RequireFromString("3.5")})
	require.NoError(t, err)

	res, err := ledger.Issue(ctx, inventory.IssueInput{ItemID: item.ID, Quantity: decimal.NewFromInt(7), Note: "pedido"})
	require.NoError(t, err)
	require.Len(t, res.Movements, 2)
	assert.Equal(t, first.ID, res.Movements[0].LotID)

	s, err := ledger.GetSummary(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, s.Balance.Equal(decimal.RequireFromString("1.5")), s.Balance.String())
	assert.Nil(t, s.NextExpiry)

	require.NoError(t, runner.View(ctx, func(r inventory.TxRepos) error {
		movs, err := r.Movements.List(ctx, repository.MovementFilter{Text: "LECH", Kind: entity.MovementKindIssue})
		require.NoError(t, err)
		assert.Len(t, movs, 2)
		assert.Equal(t, "Leche", movs[0].ItemName)
		return nil
	}))

	// Salidas concurrentes: nunca se despacha más que el saldo.
	var g errgroup.Group
	results := make([]*inventory.IssueResult, 10)
	for i := range results {
		g.Go(func() error {
			r, err := ledger.Issue(ctx, inventory.IssueInput{ItemID: item.ID, Quantity: decimal.NewFromFloat(0.5)})
			results[i] = r
			return err
		})
	}
	require.NoError(t, g.Wait())
	total := decimal.Zero
	for _, r := range results {
		total = total.Add(r.Issued)
	}
	assert.True(t, total.Equal(decimal.RequireFromString("1.5")), total.String())

	require.NoError(t, runner.Run(ctx, func(r inventory.TxRepos) error { return r.Items.Delete(ctx, item.ID) }))
	require.NoError(t, runner.View(ctx, func(r inventory.TxRepos) error {
		lots, err := r.Lots.ListByItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Empty(t, lots)
		movs, err := r.Movements.List(ctx, repository.MovementFilter{ItemID: item.ID})
		require.NoError(t, err)
		assert.Empty(t, movs)
		return nil
	}))
}
