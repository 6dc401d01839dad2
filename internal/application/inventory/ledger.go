package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/inventario-lotes/internal/domain/inventory"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
	"github.com/jhoicas/inventario-lotes/pkg/logger"
)

// IssuePolicy qué hacer cuando una salida no se puede cubrir completa.
type IssuePolicy string

const (
	// IssuePolicyPartial despacha todo lo disponible e informa el faltante (por defecto).
	IssuePolicyPartial IssuePolicy = "partial"
	// IssuePolicyStrict rechaza la salida completa con domain.ErrInsufficientStock.
	IssuePolicyStrict IssuePolicy = "strict"
)

// LedgerConfig parámetros del libro de lotes.
type LedgerConfig struct {
	Policy     IssuePolicy
	MaxRetries int // intentos ante domain.ErrContention (mínimo 1)
}

// LedgerUseCase único punto de entrada que modifica el stock: entradas por lote y salidas FEFO.
// Cada operación corre en una unidad de trabajo (TxRunner.Run) que bloquea el ítem
// (GetForUpdate) y hace Commit o Rollback completo.
type LedgerUseCase struct {
	txRunner TxRunner
	cfg      LedgerConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, cfg LedgerConfig, log *logger.Logger) *LedgerUseCase {
	if cfg.Policy == "" {
		cfg.Policy = IssuePolicyPartial
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner: txRunner,
		cfg:      cfg,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ReceiveInput entrada para registrar la recepción de un lote.
type ReceiveInput struct {
	ItemID   string
	Quantity decimal.Decimal
	Expiry   *time.Time // nil = no vence
	Note     string
}

// IssueInput entrada para registrar una salida.
type IssueInput struct {
	ItemID   string
	Quantity decimal.Decimal
	Note     string
}

// IssueResult resultado de una salida. Shortfall > 0 no es un error: indica la parte
// solicitada que no había en stock (política parcial).
type IssueResult struct {
	Requested decimal.Decimal
	Issued    decimal.Decimal
	Shortfall decimal.Decimal
	Movements []*entity.Movement
}

// Receive crea un lote y su movimiento "receive" en una sola transacción.
func (uc *LedgerUseCase) Receive(ctx context.Context, in ReceiveInput) (*entity.Lot, error) {
	if err := validateQuantity(in.ItemID, in.Quantity); err != nil {
		return nil, err
	}
	var lot *entity.Lot
	err := uc.withRetry(ctx, "receive", func() error {
		return uc.txRunner.Run(ctx, func(repos TxRepos) error {
			l, err := uc.ReceiveInTx(ctx, repos, in)
			lot = l
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("item_id", lot.ItemID).
		Str("lot_id", lot.ID).
		Str("quantity", lot.QuantityReceived.String()).
		Msg("lote recibido")
	return lot, nil
}

// ReceiveInTx registra la recepción usando los repositorios proporcionados (misma transacción del caller).
func (uc *LedgerUseCase) ReceiveInTx(ctx context.Context, repos TxRepos, in ReceiveInput) (*entity.Lot, error) {
	if err := validateQuantity(in.ItemID, in.Quantity); err != nil {
		return nil, err
	}
	item, err := repos.Items.GetForUpdate(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	lot, err := entity.NewLot(item.ID, in.Quantity, in.Expiry, now)
	if err != nil {
		return nil, err
	}
	if err := repos.Lots.Create(ctx, lot); err != nil {
		return nil, err
	}
	mov, err := entity.NewMovement(item.ID, entity.MovementKindReceive, in.Quantity, lot.ID, in.Note, now)
	if err != nil {
		return nil, err
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return lot, nil
}

// Issue despacha quantity del ítem debitando sus lotes en orden FEFO, en una sola transacción.
// Con la política parcial, si no alcanza el stock se confirma lo disponible y se informa Shortfall.
func (uc *LedgerUseCase) Issue(ctx context.Context, in IssueInput) (*IssueResult, error) {
	if err := validateQuantity(in.ItemID, in.Quantity); err != nil {
		return nil, err
	}
	var res *IssueResult
	err := uc.withRetry(ctx, "issue", func() error {
		return uc.txRunner.Run(ctx, func(repos TxRepos) error {
			r, err := uc.IssueInTx(ctx, repos, in)
			res = r
			return err
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientLotQuantity) {
			uc.log.Error().Err(err).Str("item_id", in.ItemID).Msg("débito mayor al remanente del lote")
		}
		return nil, err
	}
	ev := uc.log.Info()
	if res.Shortfall.IsPositive() {
		ev = uc.log.Warn()
	}
	ev.Str("item_id", in.ItemID).
		Str("requested", res.Requested.String()).
		Str("issued", res.Issued.String()).
		Str("shortfall", res.Shortfall.String()).
		Int("lots", len(res.Movements)).
		Msg("salida registrada")
	return res, nil
}

// IssueInTx ejecuta una salida usando los repositorios proporcionados (misma transacción del caller).
func (uc *LedgerUseCase) IssueInTx(ctx context.Context, repos TxRepos, in IssueInput) (*IssueResult, error) {
	if err := validateQuantity(in.ItemID, in.Quantity); err != nil {
		return nil, err
	}
	item, err := repos.Items.GetForUpdate(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	lots, err := repos.Lots.ListActiveForUpdate(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	inventory.SortFEFO(lots)
	alloc := inventory.Allocate(lots, in.Quantity)
	if alloc.Partial() && uc.cfg.Policy == IssuePolicyStrict {
		return nil, fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, alloc.Issued, in.Quantity)
	}

	now := uc.now()
	res := &IssueResult{
		Requested: in.Quantity,
		Issued:    alloc.Issued,
		Shortfall: alloc.Shortfall,
		Movements: make([]*entity.Movement, 0, len(alloc.Debits)),
	}
	for _, d := range alloc.Debits {
		lot := d.Lot
		if err := lot.Debit(d.Amount); err != nil {
			return nil, err
		}
		if err := repos.Lots.UpdateRemaining(ctx, lot.ID, lot.QuantityRemaining); err != nil {
			return nil, err
		}
		mov, err := entity.NewMovement(item.ID, entity.MovementKindIssue, d.Amount, lot.ID, in.Note, now)
		if err != nil {
			return nil, err
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return nil, err
		}
		mov.ItemName = item.Name
		res.Movements = append(res.Movements, mov)
	}
	return res, nil
}

// GetSummary devuelve saldo, próximo vencimiento y últimas fechas de entrada/salida del ítem.
func (uc *LedgerUseCase) GetSummary(ctx context.Context, itemID string) (*entity.StockSummary, error) {
	var out *entity.StockSummary
	err := uc.txRunner.View(ctx, func(repos TxRepos) error {
		item, err := repos.Items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		s, err := summarize(ctx, repos, item, map[string]string{})
		if err != nil {
			return err
		}
		out = &s
		return nil
	})
	return out, err
}

// ListSummaries devuelve los resúmenes de los ítems que cumplen el filtro, ordenados por nombre.
func (uc *LedgerUseCase) ListSummaries(ctx context.Context, filter repository.ItemFilter) ([]entity.StockSummary, error) {
	var out []entity.StockSummary
	err := uc.txRunner.View(ctx, func(repos TxRepos) error {
		items, err := repos.Items.List(ctx, filter.Normalize())
		if err != nil {
			return err
		}
		names := map[string]string{}
		out = make([]entity.StockSummary, 0, len(items))
		for _, item := range items {
			s, err := summarize(ctx, repos, item, names)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		return nil
	})
	return out, err
}

// CategoryGroup resúmenes de los ítems de una categoría.
type CategoryGroup struct {
	Category  *entity.Category // nil = ítems sin categoría
	Summaries []entity.StockSummary
}

// ListSummariesByCategory agrupa los resúmenes por categoría (orden por nombre; sin categoría al final).
// Las categorías sin ítems se incluyen vacías.
func (uc *LedgerUseCase) ListSummariesByCategory(ctx context.Context) ([]CategoryGroup, error) {
	var groups []CategoryGroup
	err := uc.txRunner.View(ctx, func(repos TxRepos) error {
		cats, err := repos.Categories.List(ctx)
		if err != nil {
			return err
		}
		items, err := repos.Items.List(ctx, repository.ItemFilter{})
		if err != nil {
			return err
		}
		names := make(map[string]string, len(cats))
		byCat := make(map[string][]entity.StockSummary, len(cats))
		for _, c := range cats {
			names[c.ID] = c.Name
		}
		for _, item := range items {
			s, err := summarize(ctx, repos, item, names)
			if err != nil {
				return err
			}
			byCat[item.CategoryID] = append(byCat[item.CategoryID], s)
		}
		groups = make([]CategoryGroup, 0, len(cats)+1)
		for _, c := range cats {
			groups = append(groups, CategoryGroup{Category: c, Summaries: nonNil(byCat[c.ID])})
		}
		if rest := byCat[""]; len(rest) > 0 {
			groups = append(groups, CategoryGroup{Summaries: rest})
		}
		return nil
	})
	return groups, err
}

// ListLots devuelve todos los lotes del ítem (incluidos los agotados) en orden de consumo FEFO.
func (uc *LedgerUseCase) ListLots(ctx context.Context, itemID string) ([]entity.Lot, error) {
	var lots []entity.Lot
	err := uc.txRunner.View(ctx, func(repos TxRepos) error {
		item, err := repos.Items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		lots, err = repos.Lots.ListByItem(ctx, itemID)
		if err != nil {
			return err
		}
		inventory.SortFEFO(lots)
		return nil
	})
	return lots, err
}

// summarize arma el StockSummary de un ítem. names cachea nombres de categoría entre ítems.
func summarize(ctx context.Context, repos TxRepos, item *entity.Item, names map[string]string) (entity.StockSummary, error) {
	catName := ""
	if item.CategoryID != "" {
		name, ok := names[item.CategoryID]
		if !ok {
			cat, err := repos.Categories.GetByID(ctx, item.CategoryID)
			if err != nil {
				return entity.StockSummary{}, err
			}
			if cat != nil {
				name = cat.Name
			}
			names[item.CategoryID] = name
		}
		catName = name
	}
	lots, err := repos.Lots.ListByItem(ctx, item.ID)
	if err != nil {
		return entity.StockSummary{}, err
	}
	lastReceive, err := repos.Movements.LastAt(ctx, item.ID, entity.MovementKindReceive)
	if err != nil {
		return entity.StockSummary{}, err
	}
	lastIssue, err := repos.Movements.LastAt(ctx, item.ID, entity.MovementKindIssue)
	if err != nil {
		return entity.StockSummary{}, err
	}
	return inventory.BuildSummary(*item, catName, lots, lastReceive, lastIssue), nil
}

// withRetry reintenta fn con backoff exponencial mientras devuelva domain.ErrContention.
func (uc *LedgerUseCase) withRetry(ctx context.Context, op string, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := fn()
		if err == nil {
			return struct{}{}, nil
		}
		if errors.Is(err, domain.ErrContention) {
			uc.log.Debug().Err(err).Str("op", op).Int("attempt", attempt).Msg("conflicto de concurrencia, reintentando")
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(uc.cfg.MaxRetries)))
	return err
}

func validateQuantity(itemID string, qty decimal.Decimal) error {
	if itemID == "" || !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	if !entity.ValidQuantity(qty) {
		return fmt.Errorf("%w: cantidad %s con más de %d decimales", domain.ErrInvalidInput, qty, entity.QuantityScale)
	}
	return nil
}

func nonNil(s []entity.StockSummary) []entity.StockSummary {
	if s == nil {
		return []entity.StockSummary{}
	}
	return s
}
