package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/jhoicas/inventario-lotes/internal/domain/repository"
)

type itemRepo struct{ t *tx }

var _ repository.ItemRepository = (*itemRepo)(nil)

func (r *itemRepo) Create(_ context.Context, item *entity.Item) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if other := r.byName(item.Name); other != nil {
		return fmt.Errorf("%w: ítem %q", domain.ErrDuplicate, item.Name)
	}
	cp := *item
	r.t.items[item.ID] = &cp
	return nil
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return r.t.item(id), nil
}

func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	if err := r.t.lock(ctx, id); err != nil {
		return nil, err
	}
	return r.t.item(id), nil
}

func (r *itemRepo) GetByName(_ context.Context, name string) (*entity.Item, error) {
	return r.byName(name), nil
}

func (r *itemRepo) byName(name string) *entity.Item {
	key := entity.NameKey(name)
	for _, it := range r.t.allItems() {
		if entity.NameKey(it.Name) == key {
			return it
		}
	}
	return nil
}

func (r *itemRepo) Update(_ context.Context, item *entity.Item) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if r.t.item(item.ID) == nil {
		return domain.ErrNotFound
	}
	if other := r.byName(item.Name); other != nil && other.ID != item.ID {
		return fmt.Errorf("%w: ítem %q", domain.ErrDuplicate, item.Name)
	}
	cp := *item
	r.t.items[item.ID] = &cp
	return nil
}

func (r *itemRepo) Delete(ctx context.Context, id string) error {
	if err := r.t.lock(ctx, id); err != nil {
		return err
	}
	if r.t.item(id) == nil {
		return domain.ErrNotFound
	}
	r.t.deleted[id] = true
	delete(r.t.items, id)
	for lotID, l := range r.t.lots {
		if l.ItemID == id {
			delete(r.t.lots, lotID)
		}
	}
	r.t.movements = slices.DeleteFunc(r.t.movements, func(m *entity.Movement) bool { return m.ItemID == id })
	return nil
}

func (r *itemRepo) List(_ context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	filter = filter.Normalize()
	out := make([]*entity.Item, 0)
	for _, it := range r.t.allItems() {
		if filter.CategoryID != "" && it.CategoryID != filter.CategoryID {
			continue
		}
		if filter.NameContains != "" && !containsFold(it.Name, filter.NameContains) {
			continue
		}
		out = append(out, it)
	}
	slices.SortFunc(out, func(a, b *entity.Item) int {
		return cmp.Or(cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

type categoryRepo struct{ t *tx }

var _ repository.CategoryRepository = (*categoryRepo)(nil)

func (r *categoryRepo) Create(_ context.Context, category *entity.Category) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if other := r.byName(category.Name); other != nil {
		return fmt.Errorf("%w: categoría %q", domain.ErrDuplicate, category.Name)
	}
	cp := *category
	r.t.categories[category.ID] = &cp
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	return r.t.category(id), nil
}

func (r *categoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	return r.byName(name), nil
}

func (r *categoryRepo) byName(name string) *entity.Category {
	key := entity.NameKey(name)
	for _, c := range r.t.allCategories() {
		if entity.NameKey(c.Name) == key {
			return c
		}
	}
	return nil
}

func (r *categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	out := r.t.allCategories()
	slices.SortFunc(out, func(a, b *entity.Category) int {
		return cmp.Or(cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

type lotRepo struct{ t *tx }

var _ repository.LotRepository = (*lotRepo)(nil)

func (r *lotRepo) Create(_ context.Context, lot *entity.Lot) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	lot.Seq = r.t.s.seq.Add(1)
	cp := *lot
	r.t.lots[lot.ID] = &cp
	return nil
}

func (r *lotRepo) ListActiveForUpdate(ctx context.Context, itemID string) ([]entity.Lot, error) {
	if err := r.t.lock(ctx, itemID); err != nil {
		return nil, err
	}
	lots := r.t.lotsOf(itemID)
	return slices.DeleteFunc(lots, func(l entity.Lot) bool { return !l.Active() }), nil
}

func (r *lotRepo) ListByItem(_ context.Context, itemID string) ([]entity.Lot, error) {
	lots := r.t.lotsOf(itemID)
	slices.SortFunc(lots, func(a, b entity.Lot) int { return cmp.Compare(a.Seq, b.Seq) })
	return lots, nil
}

func (r *lotRepo) UpdateRemaining(_ context.Context, lotID string, remaining decimal.Decimal) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	lot := r.t.lot(lotID)
	if lot == nil {
		return domain.ErrNotFound
	}
	if remaining.IsNegative() || remaining.GreaterThan(lot.QuantityReceived) {
		return domain.ErrInvalidInput
	}
	lot.QuantityRemaining = remaining
	r.t.lots[lotID] = lot
	return nil
}

type movementRepo struct{ t *tx }

var _ repository.MovementRepository = (*movementRepo)(nil)

func (r *movementRepo) Create(_ context.Context, movement *entity.Movement) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	movement.Seq = r.t.s.seq.Add(1)
	cp := *movement
	r.t.movements = append(r.t.movements, &cp)
	return nil
}

func (r *movementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	out := r.matching(filter)
	slices.SortFunc(out, func(a, b *entity.Movement) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.Seq, a.Seq))
	})
	if filter.Offset >= len(out) {
		return []*entity.Movement{}, nil
	}
	out = out[filter.Offset:]
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *movementRepo) Count(_ context.Context, filter repository.MovementFilter) (int, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	return len(r.matching(filter)), nil
}

func (r *movementRepo) matching(filter repository.MovementFilter) []*entity.Movement {
	items := r.t.allItems()
	out := make([]*entity.Movement, 0)
	for _, m := range r.t.allMovements() {
		if it, ok := items[m.ItemID]; ok {
			m.ItemName = it.Name
		}
		if filter.Matches(&m) {
			out = append(out, &m)
		}
	}
	return out
}

func (r *movementRepo) LastAt(_ context.Context, itemID, kind string) (*time.Time, error) {
	var last *time.Time
	for _, m := range r.t.allMovements() {
		if m.ItemID != itemID || m.Kind != kind {
			continue
		}
		if last == nil || m.CreatedAt.After(*last) {
			at := m.CreatedAt
			last = &at
		}
	}
	return last, nil
}
