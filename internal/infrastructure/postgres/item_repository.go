package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, category_id, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo ítem. El nombre es único sin distinguir mayúsculas (ux_items_name).
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, name, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, item.ID, item.Name, nullIfEmpty(item.CategoryID), item.CreatedAt, item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ítem %q", domain.ErrDuplicate, item.Name)
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return classify("insert item", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get item", `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetForUpdate obtiene el ítem y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get item for update", `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// GetByName busca un ítem por nombre sin distinguir mayúsculas.
func (r *ItemRepo) GetByName(ctx context.Context, name string) (*entity.Item, error) {
	return r.getOne(ctx, "get item by name", `SELECT `+itemColumns+` FROM items WHERE lower(name) = lower($1)`, entity.NormalizeName(name))
}

func (r *ItemRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(op, err)
	}
	return item, nil
}

// Update guarda nombre y categoría del ítem.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `UPDATE items SET name = $2, category_id = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, item.ID, item.Name, nullIfEmpty(item.CategoryID), item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ítem %q", domain.ErrDuplicate, item.Name)
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return classify("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el ítem; lotes y movimientos se borran por ON DELETE CASCADE.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return classify("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve los ítems del filtro ordenados por nombre.
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	filter = filter.Normalize()
	var (
		conds []string
		args  []any
	)
	if filter.CategoryID != "" {
		if !validID(filter.CategoryID) {
			return []*entity.Item{}, nil
		}
		args = append(args, filter.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.NameContains != "" {
		args = append(args, "%"+escapeLike(filter.NameContains)+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY lower(name), id`

	rows, err := r.q.Query(ctx, query, args...)
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

func scanItem(row pgx.Row) (*entity.Item, error) {
	var (
		item       entity.Item
		categoryID *string
	)
	if err := row.Scan(&item.ID, &item.Name, &categoryID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if categoryID != nil {
		item.CategoryID = *categoryID
	}
	return &item, nil
}

// escapeLike escapa los comodines de LIKE/ILIKE en texto de usuario.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
