package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (solo inserción y consulta).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento y devuelve en movement.Seq el valor asignado por la secuencia.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, item_id, kind, quantity, lot_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query, m.ID, m.ItemID, m.Kind, m.Quantity, m.LotID, m.Note, m.CreatedAt).Scan(&m.Seq)
	if err != nil {
		return classify("insert movement", err)
	}
	return nil
}

// movementWhere arma el FROM/WHERE del filtro. ok=false si el filtro no puede coincidir con nada.
func movementWhere(filter repository.MovementFilter) (clause string, args []any, ok bool) {
	var conds []string
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.ItemID != "" {
		if !validID(filter.ItemID) {
			return "", nil, false
		}
		conds = append(conds, "m.item_id = "+arg(filter.ItemID))
	}
	if filter.Kind != "" {
		conds = append(conds, "m.kind = "+arg(filter.Kind))
	}
	if filter.From != nil {
		conds = append(conds, "m.created_at >= "+arg(*filter.From))
	}
	if filter.Until != nil {
		conds = append(conds, "m.created_at < "+arg(*filter.Until))
	}
	if filter.Text != "" {
		p := arg("%" + escapeLike(filter.Text) + "%")
		conds = append(conds, fmt.Sprintf("(i.name ILIKE %s OR m.note ILIKE %s)", p, p))
	}
	clause = `
		FROM movements m
		JOIN items i ON i.id = m.item_id`
	if len(conds) > 0 {
		clause += " WHERE " + strings.Join(conds, " AND ")
	}
	return clause, args, true
}

// List consulta el historial con los filtros indicados, del más reciente al más antiguo.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	where, args, ok := movementWhere(filter)
	if !ok {
		return []*entity.Movement{}, nil
	}
	var sb strings.Builder
	sb.WriteString(`SELECT m.id, m.item_id, i.name, m.kind, m.quantity, m.lot_id, m.note, m.created_at, m.seq`)
	sb.WriteString(where)
	sb.WriteString(" ORDER BY m.created_at DESC, m.seq DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, classify("list movements", err)
	}
	defer rows.Close()
	out := make([]*entity.Movement, 0)
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.ItemName, &m.Kind, &m.Quantity, &m.LotID, &m.Note, &m.CreatedAt, &m.Seq); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, classify("list movements", rows.Err())
}

// Count devuelve cuántos movimientos cumplen el filtro, sin paginar.
func (r *MovementRepo) Count(ctx context.Context, filter repository.MovementFilter) (int, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	where, args, ok := movementWhere(filter)
	if !ok {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*)`+where, args...).Scan(&n); err != nil {
		return 0, classify("count movements", err)
	}
	return n, nil
}

// LastAt devuelve la fecha del último movimiento del tipo indicado para el ítem.
func (r *MovementRepo) LastAt(ctx context.Context, itemID, kind string) (*time.Time, error) {
	if !validID(itemID) {
		return nil, nil
	}
	var last *time.Time
	err := r.q.QueryRow(ctx, `SELECT max(created_at) FROM movements WHERE item_id = $1 AND kind = $2`, itemID, kind).Scan(&last)
	if err != nil {
		return nil, classify("last movement", err)
	}
	return last, nil
}
