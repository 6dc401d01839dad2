package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = `id, item_id, quantity_received, quantity_remaining, expiry_date, received_at, seq`

// LotRepo implementación de LotRepository sobre PostgreSQL. Pensado para usarse dentro de una tx.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Create inserta el lote y devuelve en lot.Seq el valor asignado por la secuencia.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query := `
		INSERT INTO lots (id, item_id, quantity_received, quantity_remaining, expiry_date, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		lot.ID, lot.ItemID, lot.QuantityReceived, lot.QuantityRemaining, lot.ExpiryDate, lot.ReceivedAt,
	).Scan(&lot.Seq)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return classify("insert lot", err)
	}
	return nil
}

// ListActiveForUpdate devuelve los lotes con remanente del ítem y los bloquea (FOR UPDATE).
func (r *LotRepo) ListActiveForUpdate(ctx context.Context, itemID string) ([]entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots
		WHERE item_id = $1 AND quantity_remaining > 0
		ORDER BY seq
		FOR UPDATE`
	return r.list(ctx, "list active lots", query, itemID)
}

// ListByItem devuelve todos los lotes del ítem en orden de recepción.
func (r *LotRepo) ListByItem(ctx context.Context, itemID string) ([]entity.Lot, error) {
	if !validID(itemID) {
		return []entity.Lot{}, nil
	}
	query := `SELECT ` + lotColumns + ` FROM lots WHERE item_id = $1 ORDER BY seq`
	return r.list(ctx, "list lots", query, itemID)
}

func (r *LotRepo) list(ctx context.Context, op, query string, itemID string) ([]entity.Lot, error) {
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	out := make([]entity.Lot, 0)
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		out = append(out, l)
	}
	return out, classify(op, rows.Err())
}

// UpdateRemaining fija el remanente; ck_lots_remaining impide valores fuera de [0, recibido].
func (r *LotRepo) UpdateRemaining(ctx context.Context, lotID string, remaining decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE lots SET quantity_remaining = $2 WHERE id = $1`, lotID, remaining)
	if err != nil {
		return classify("update lot remaining", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanLot(row pgx.Row) (entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(&l.ID, &l.ItemID, &l.QuantityReceived, &l.QuantityRemaining, &l.ExpiryDate, &l.ReceivedAt, &l.Seq)
	if err != nil {
		return entity.Lot{}, err
	}
	if l.ExpiryDate != nil {
		d := entity.DateOnly(*l.ExpiryDate)
		l.ExpiryDate = &d
	}
	return l, nil
}
