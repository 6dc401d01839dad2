// Package memory implementa el libro de lotes en memoria, para tests y desarrollo local.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
)

// DefaultLockTimeout espera máxima por el bloqueo de un ítem.
const DefaultLockTimeout = 5 * time.Second

var errReadOnly = errors.New("memory: escritura en una unidad de trabajo de solo lectura")

// Store guarda categorías, ítems, lotes y movimientos en mapas protegidos por un RWMutex.
// Las escrituras de Run se acumulan en la unidad de trabajo y se aplican juntas al confirmar;
// un error en fn las descarta. Cada ítem tiene un bloqueo propio (canal de capacidad 1)
// que GetForUpdate toma hasta el fin de la unidad de trabajo.
type Store struct {
	mu         sync.RWMutex
	categories map[string]entity.Category
	items      map[string]entity.Item
	lots       map[string]entity.Lot
	movements  []entity.Movement

	seq atomic.Int64

	locksMu     sync.Mutex
	locks       map[string]chan struct{}
	lockTimeout time.Duration
}

var _ inventory.TxRunner = (*Store)(nil)

// New crea un Store vacío. lockTimeout <= 0 usa DefaultLockTimeout.
func New(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Store{
		categories:  make(map[string]entity.Category),
		items:       make(map[string]entity.Item),
		lots:        make(map[string]entity.Lot),
		locks:       make(map[string]chan struct{}),
		lockTimeout: lockTimeout,
	}
}

// Run ejecuta fn en una unidad de trabajo de escritura. Si fn devuelve nil los cambios
// se aplican de forma atómica; si no, se descartan.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := newTx(s, false)
	defer t.release()
	if err := fn(t.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(t)
}

// View ejecuta fn sobre una foto consistente: ninguna confirmación ocurre mientras fn corre.
func (s *Store) View(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(newTx(s, true).repos())
}

func (s *Store) itemLock(itemID string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	ch, ok := s.locks[itemID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[itemID] = ch
	}
	return ch
}

func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range t.categories {
		for _, other := range s.categories {
			if other.ID != c.ID && entity.NameKey(other.Name) == entity.NameKey(c.Name) {
				return fmt.Errorf("%w: categoría %q", domain.ErrDuplicate, c.Name)
			}
		}
	}
	for _, it := range t.items {
		for _, other := range s.items {
			if other.ID != it.ID && !t.deleted[other.ID] && entity.NameKey(other.Name) == entity.NameKey(it.Name) {
				return fmt.Errorf("%w: ítem %q", domain.ErrDuplicate, it.Name)
			}
		}
		if it.CategoryID != "" {
			_, committed := s.categories[it.CategoryID]
			_, staged := t.categories[it.CategoryID]
			if !committed && !staged {
				return domain.ErrNotFound
			}
		}
	}

	for id, c := range t.categories {
		s.categories[id] = *c
	}
	for id, it := range t.items {
		s.items[id] = *it
	}
	for id, l := range t.lots {
		s.lots[id] = *l
	}
	for _, m := range t.movements {
		mv := *m
		mv.ItemName = ""
		s.movements = append(s.movements, mv)
	}
	for id := range t.deleted {
		s.deleteItemLocked(id)
	}
	return nil
}

func (s *Store) deleteItemLocked(itemID string) {
	delete(s.items, itemID)
	for id, l := range s.lots {
		if l.ItemID == itemID {
			delete(s.lots, id)
		}
	}
	kept := s.movements[:0]
	for _, m := range s.movements {
		if m.ItemID != itemID {
			kept = append(kept, m)
		}
	}
	clear(s.movements[len(kept):])
	s.movements = kept
}

// tx unidad de trabajo. En modo lectura View ya tiene tomado s.mu.RLock.
type tx struct {
	s        *Store
	readOnly bool
	held     map[string]chan struct{}

	categories map[string]*entity.Category
	items      map[string]*entity.Item
	deleted    map[string]bool
	lots       map[string]*entity.Lot
	movements  []*entity.Movement
}

func newTx(s *Store, readOnly bool) *tx {
	return &tx{
		s:          s,
		readOnly:   readOnly,
		held:       make(map[string]chan struct{}),
		categories: make(map[string]*entity.Category),
		items:      make(map[string]*entity.Item),
		deleted:    make(map[string]bool),
		lots:       make(map[string]*entity.Lot),
	}
}

func (t *tx) repos() inventory.TxRepos {
	return inventory.TxRepos{
		Items:      &itemRepo{t: t},
		Categories: &categoryRepo{t: t},
		Lots:       &lotRepo{t: t},
		Movements:  &movementRepo{t: t},
	}
}

// read toma el RLock del store salvo en modo lectura (View ya lo tiene).
func (t *tx) read() func() {
	if t.readOnly {
		return func() {}
	}
	t.s.mu.RLock()
	return t.s.mu.RUnlock
}

func (t *tx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

// lock toma el bloqueo del ítem hasta el fin de la unidad de trabajo.
func (t *tx) lock(ctx context.Context, itemID string) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.held[itemID]; ok {
		return nil
	}
	ch := t.s.itemLock(itemID)
	timer := time.NewTimer(t.s.lockTimeout)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		t.held[itemID] = ch
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: ítem %s bloqueado", domain.ErrContention, itemID)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *tx) release() {
	for id, ch := range t.held {
		<-ch
		delete(t.held, id)
	}
}

func (t *tx) item(id string) *entity.Item {
	if t.deleted[id] {
		return nil
	}
	if it, ok := t.items[id]; ok {
		cp := *it
		return &cp
	}
	unlock := t.read()
	defer unlock()
	if it, ok := t.s.items[id]; ok {
		return &it
	}
	return nil
}

func (t *tx) allItems() map[string]*entity.Item {
	unlock := t.read()
	out := make(map[string]*entity.Item, len(t.s.items)+len(t.items))
	for id, it := range t.s.items {
		out[id] = &it
	}
	unlock()
	for id, it := range t.items {
		cp := *it
		out[id] = &cp
	}
	for id := range t.deleted {
		delete(out, id)
	}
	return out
}

func (t *tx) category(id string) *entity.Category {
	if c, ok := t.categories[id]; ok {
		cp := *c
		return &cp
	}
	unlock := t.read()
	defer unlock()
	if c, ok := t.s.categories[id]; ok {
		return &c
	}
	return nil
}

func (t *tx) allCategories() []*entity.Category {
	unlock := t.read()
	out := make(map[string]*entity.Category, len(t.s.categories)+len(t.categories))
	for id, c := range t.s.categories {
		out[id] = &c
	}
	unlock()
	for id, c := range t.categories {
		cp := *c
		out[id] = &cp
	}
	list := make([]*entity.Category, 0, len(out))
	for _, c := range out {
		list = append(list, c)
	}
	return list
}

// lotsOf devuelve los lotes del ítem con los cambios de la unidad de trabajo aplicados.
func (t *tx) lotsOf(itemID string) []entity.Lot {
	if t.deleted[itemID] {
		return nil
	}
	merged := make(map[string]entity.Lot)
	unlock := t.read()
	for id, l := range t.s.lots {
		if l.ItemID == itemID {
			merged[id] = l
		}
	}
	unlock()
	for id, l := range t.lots {
		if l.ItemID == itemID {
			merged[id] = *l
		}
	}
	out := make([]entity.Lot, 0, len(merged))
	for _, l := range merged {
		out = append(out, l)
	}
	return out
}

func (t *tx) lot(id string) *entity.Lot {
	if l, ok := t.lots[id]; ok {
		cp := *l
		return &cp
	}
	unlock := t.read()
	defer unlock()
	if l, ok := t.s.lots[id]; ok && !t.deleted[l.ItemID] {
		return &l
	}
	return nil
}

func (t *tx) allMovements() []entity.Movement {
	unlock := t.read()
	out := make([]entity.Movement, 0, len(t.s.movements)+len(t.movements))
	for _, m := range t.s.movements {
		if !t.deleted[m.ItemID] {
			out = append(out, m)
		}
	}
	unlock()
	for _, m := range t.movements {
		out = append(out, *m)
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
