package inventory

import (
	"slices"

	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
)

// CompareFEFO define el orden de consumo de lotes (First-Expired-First-Out):
//  1. lotes con vencimiento, del más próximo al más lejano
//  2. lotes sin vencimiento al final
//  3. a igual clave, el recibido primero (ReceivedAt y luego Seq)
//
// Es la única fuente de verdad del orden de asignación; los repositorios no ordenan por su cuenta.
func CompareFEFO(a, b entity.Lot) int {
	switch {
	case a.ExpiryDate == nil && b.ExpiryDate != nil:
		return 1
	case a.ExpiryDate != nil && b.ExpiryDate == nil:
		return -1
	case a.ExpiryDate != nil && b.ExpiryDate != nil:
		if c := a.ExpiryDate.Compare(*b.ExpiryDate); c != 0 {
			return c
		}
	}
	if c := a.ReceivedAt.Compare(b.ReceivedAt); c != 0 {
		return c
	}
	switch {
	case a.Seq < b.Seq:
		return -1
	case a.Seq > b.Seq:
		return 1
	}
	return 0
}

// SortFEFO ordena lots in-place según CompareFEFO (estable para claves iguales).
func SortFEFO(lots []entity.Lot) {
	slices.SortStableFunc(lots, CompareFEFO)
}

// ActiveFEFO devuelve una copia con los lotes que tienen remanente, en orden FEFO.
func ActiveFEFO(lots []entity.Lot) []entity.Lot {
	active := make([]entity.Lot, 0, len(lots))
	for _, l := range lots {
		if l.Active() {
			active = append(active, l)
		}
	}
	SortFEFO(active)
	return active
}
