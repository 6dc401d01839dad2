package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
)

type itemRepo struct{ tx *sql.Tx }

var _ repository.ItemRepository = (*itemRepo)(nil)

const itemColumns = `id, name, category_id, created_at, updated_at`

func (r *itemRepo) Create(ctx context.Context, item *entity.Item) error {
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO items (id, name, name_key, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, entity.NameKey(item.Name), nullIfEmpty(item.CategoryID),
		formatTime(item.CreatedAt), formatTime(item.UpdatedAt))
	return itemWriteErr("insert item", item, err)
}

func (r *itemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
}

// GetForUpdate no necesita bloqueo de fila: BEGIN IMMEDIATE ya tiene el bloqueo de escritura.
func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepo) GetByName(ctx context.Context, name string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE name_key = ?`, entity.NameKey(name))
}

func (r *itemRepo) getOne(ctx context.Context, query string, arg any) (*entity.Item, error) {
	item, err := scanItem(r.tx.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("get item", err)
	}
	return item, nil
}

func (r *itemRepo) Update(ctx context.Context, item *entity.Item) error {
	res, err := r.tx.ExecContext(ctx, `
		UPDATE items SET name = ?, name_key = ?, category_id = ?, updated_at = ? WHERE id = ?`,
		item.Name, entity.NameKey(item.Name), nullIfEmpty(item.CategoryID), formatTime(item.UpdatedAt), item.ID)
	if err := itemWriteErr("update item", item, err); err != nil {
		return err
	}
	return requireRow(res)
}

func (r *itemRepo) Delete(ctx context.Context, id string) error {
	res, err := r.tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return classify("delete item", err)
	}
	return requireRow(res)
}

func (r *itemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	filter = filter.Normalize()
	var (
		conds []string
		args  []any
	)
	if filter.CategoryID != "" {
		conds = append(conds, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.NameContains != "" {
		conds = append(conds, "instr(fold(name), ?) > 0")
		args = append(args, strings.ToLower(filter.NameContains))
	}
	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY name_key, id`

	rows, err := r.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list items", err)
	}
	defer rows.Close()
	out := make([]*entity.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, item)
	}
	return out, classify("list items", rows.Err())
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*entity.Item, error) {
	var (
		item                 entity.Item
		categoryID           sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&item.ID, &item.Name, &categoryID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	item.CategoryID = categoryID.String
	var err error
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func itemWriteErr(op string, item *entity.Item, err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%w: ítem %q", domain.ErrDuplicate, item.Name)
	case isForeignKeyViolation(err):
		return domain.ErrNotFound
	default:
		return classify(op, err)
	}
}

type categoryRepo struct{ tx *sql.Tx }

var _ repository.CategoryRepository = (*categoryRepo)(nil)

func (r *categoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.tx.ExecContext(ctx, `INSERT INTO categories (id, name, name_key, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, entity.NameKey(c.Name), formatTime(c.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: categoría %q", domain.ErrDuplicate, c.Name)
		}
		return classify("insert category", err)
	}
	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT id, name, created_at FROM categories WHERE id = ?`, id)
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT id, name, created_at FROM categories WHERE name_key = ?`, entity.NameKey(name))
}

func (r *categoryRepo) getOne(ctx context.Context, query string, arg any) (*entity.Category, error) {
	c, err := scanCategory(r.tx.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("get category", err)
	}
	return c, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.tx.QueryContext(ctx, `SELECT id, name, created_at FROM categories ORDER BY name_key, id`)
	if err != nil {
		return nil, classify("list categories", err)
	}
	defer rows.Close()
	out := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, classify("list categories", rows.Err())
}

func scanCategory(row scanner) (*entity.Category, error) {
	var (
		c         entity.Category
		createdAt string
	)
	if err := row.Scan(&c.ID, &c.Name, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = t
	return &c, nil
}

type lotRepo struct{ tx *sql.Tx }

var _ repository.LotRepository = (*lotRepo)(nil)

const lotColumns = `id, item_id, quantity_received, quantity_remaining, expiry_date, received_at, seq`

func (r *lotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	var expiry any
	if lot.ExpiryDate != nil {
		expiry = lot.ExpiryDate.Format(dateLayout)
	}
	res, err := r.tx.ExecContext(ctx, `
		INSERT INTO lots (id, item_id, quantity_received, quantity_remaining, expiry_date, received_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		lot.ID, lot.ItemID, lot.QuantityReceived.String(), lot.QuantityRemaining.String(), expiry, formatTime(lot.ReceivedAt))
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return classify("insert lot", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("lot seq: %w", err)
	}
	lot.Seq = seq
	return nil
}

// ListActiveForUpdate filtra en Go: las cantidades son TEXT y no se comparan numéricamente en SQL.
func (r *lotRepo) ListActiveForUpdate(ctx context.Context, itemID string) ([]entity.Lot, error) {
	lots, err := r.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	active := lots[:0]
	for _, l := range lots {
		if l.Active() {
			active = append(active, l)
		}
	}
	return active, nil
}

func (r *lotRepo) ListByItem(ctx context.Context, itemID string) ([]entity.Lot, error) {
	rows, err := r.tx.QueryContext(ctx, `SELECT `+lotColumns+` FROM lots WHERE item_id = ? ORDER BY seq`, itemID)
	if err != nil {
		return nil, classify("list lots", err)
	}
	defer rows.Close()
	out := make([]entity.Lot, 0)
	for rows.Next() {
		var (
			l          entity.Lot
			expiry     sql.NullString
			receivedAt string
		)
		if err := rows.Scan(&l.ID, &l.ItemID, &l.QuantityReceived, &l.QuantityRemaining, &expiry, &receivedAt, &l.Seq); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		if expiry.Valid {
			d, err := time.Parse(dateLayout, expiry.String)
			if err != nil {
				return nil, fmt.Errorf("parse expiry: %w", err)
			}
			l.ExpiryDate = &d
		}
		if l.ReceivedAt, err = parseTime(receivedAt); err != nil {
			return nil, fmt.Errorf("parse received_at: %w", err)
		}
		out = append(out, l)
	}
	return out, classify("list lots", rows.Err())
}

func (r *lotRepo) UpdateRemaining(ctx context.Context, lotID string, remaining decimal.Decimal) error {
	if remaining.IsNegative() {
		return domain.ErrInvalidInput
	}
	res, err := r.tx.ExecContext(ctx, `UPDATE lots SET quantity_remaining = ? WHERE id = ?`, remaining.String(), lotID)
	if err != nil {
		return classify("update lot remaining", err)
	}
	return requireRow(res)
}

type movementRepo struct{ tx *sql.Tx }

var _ repository.MovementRepository = (*movementRepo)(nil)

func (r *movementRepo) Create(ctx context.Context, m *entity.Movement) error {
	res, err := r.tx.ExecContext(ctx, `
		INSERT INTO movements (id, item_id, kind, quantity, lot_id, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ItemID, m.Kind, m.Quantity.String(), m.LotID, m.Note, formatTime(m.CreatedAt))
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return classify("insert movement", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("movement seq: %w", err)
	}
	m.Seq = seq
	return nil
}

// movementWhere arma el FROM/WHERE compartido por List y Count.
func movementWhere(filter repository.MovementFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.ItemID != "" {
		conds = append(conds, "m.item_id = ?")
		args = append(args, filter.ItemID)
	}
	if filter.Kind != "" {
		conds = append(conds, "m.kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.From != nil {
		conds = append(conds, "m.created_at >= ?")
		args = append(args, formatTime(*filter.From))
	}
	if filter.Until != nil {
		conds = append(conds, "m.created_at < ?")
		args = append(args, formatTime(*filter.Until))
	}
	if filter.Text != "" {
		text := strings.ToLower(filter.Text)
		conds = append(conds, "(instr(fold(i.name), ?) > 0 OR instr(fold(m.note), ?) > 0)")
		args = append(args, text, text)
	}
	clause := `
		FROM movements m
		JOIN items i ON i.id = m.item_id`
	if len(conds) > 0 {
		clause += ` WHERE ` + strings.Join(conds, " AND ")
	}
	return clause, args
}

func (r *movementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	where, args := movementWhere(filter)
	query := `SELECT m.id, m.item_id, i.name, m.kind, m.quantity, m.lot_id, m.note, m.created_at, m.seq` +
		where + ` ORDER BY m.created_at DESC, m.seq DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list movements", err)
	}
	defer rows.Close()
	out := make([]*entity.Movement, 0)
	for rows.Next() {
		var (
			m         entity.Movement
			createdAt string
		)
		if err := rows.Scan(&m.ID, &m.ItemID, &m.ItemName, &m.Kind, &m.Quantity, &m.LotID, &m.Note, &createdAt, &m.Seq); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if m.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, &m)
	}
	return out, classify("list movements", rows.Err())
}

func (r *movementRepo) Count(ctx context.Context, filter repository.MovementFilter) (int, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	where, args := movementWhere(filter)
	var n int
	if err := r.tx.QueryRowContext(ctx, `SELECT count(*)`+where, args...).Scan(&n); err != nil {
		return 0, classify("count movements", err)
	}
	return n, nil
}

func (r *movementRepo) LastAt(ctx context.Context, itemID, kind string) (*time.Time, error) {
	var last sql.NullString
	err := r.tx.QueryRowContext(ctx, `SELECT max(created_at) FROM movements WHERE item_id = ? AND kind = ?`, itemID, kind).Scan(&last)
	if err != nil {
		return nil, classify("last movement", err)
	}
	if !last.Valid {
		return nil, nil
	}
	t, err := parseTime(last.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
