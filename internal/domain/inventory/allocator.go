package inventory

import (
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Debit una porción de una salida asignada a un lote.
type Debit struct {
	Lot    entity.Lot
	Amount decimal.Decimal
}

// Allocation resultado de Allocate.
type Allocation struct {
	Debits    []Debit
	Issued    decimal.Decimal // suma de Debits
	Shortfall decimal.Decimal // requested - Issued
}

// Allocate recorre lots en el orden dado y toma de cada uno min(remanente, pendiente)
// hasta cubrir requested o agotar los lotes. No modifica los lotes; es una función pura.
//
// Si no alcanza, Shortfall > 0 y Debits contiene todo lo disponible: la salida parcial
// es la política por defecto y la decide quien llama.
func Allocate(lots []entity.Lot, requested decimal.Decimal) Allocation {
	out := Allocation{Issued: decimal.Zero, Shortfall: decimal.Zero}
	if !requested.IsPositive() {
		return out
	}
	left := requested
	for _, lot := range lots {
		if !left.IsPositive() {
			break
		}
		take := decimal.Min(lot.QuantityRemaining, left)
		if !take.IsPositive() {
			continue
		}
		out.Debits = append(out.Debits, Debit{Lot: lot, Amount: take})
		out.Issued = out.Issued.Add(take)
		left = left.Sub(take)
	}
	out.Shortfall = requested.Sub(out.Issued)
	return out
}

// Partial indica si la asignación no cubrió lo solicitado.
func (a Allocation) Partial() bool {
	return a.Shortfall.IsPositive()
}
