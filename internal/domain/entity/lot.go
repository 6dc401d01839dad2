package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/shopspring/decimal"
)

// QuantityScale decimales admitidos en cantidades; coincide con NUMERIC(20, 6) del esquema.
const QuantityScale = 6

// ValidQuantity indica si q es positiva y no tiene más de QuantityScale decimales.
func ValidQuantity(q decimal.Decimal) bool {
	return q.IsPositive() && q.Equal(q.Truncate(QuantityScale))
}

// Lot representa un lote recibido de un ítem.
// QuantityReceived queda fija al crearse; QuantityRemaining solo disminuye (0 <= remaining <= received).
// Un lote agotado no se borra: queda como rastro de auditoría.
type Lot struct {
	ID                string
	ItemID            string
	QuantityReceived  decimal.Decimal
	QuantityRemaining decimal.Decimal
	ExpiryDate        *time.Time // nil = no vence
	ReceivedAt        time.Time
	Seq               int64 // asignado por el almacenamiento, desempate final del orden FEFO
}

// NewLot crea un lote nuevo con remaining = received.
func NewLot(itemID string, quantity decimal.Decimal, expiry *time.Time, now time.Time) (*Lot, error) {
	if itemID == "" || !ValidQuantity(quantity) {
		return nil, domain.ErrInvalidInput
	}
	var exp *time.Time
	if expiry != nil {
		d := DateOnly(*expiry)
		exp = &d
	}
	return &Lot{
		ID:                uuid.New().String(),
		ItemID:            itemID,
		QuantityReceived:  quantity,
		QuantityRemaining: quantity,
		ExpiryDate:        exp,
		ReceivedAt:        now,
	}, nil
}

// Debit descuenta amount del remanente del lote.
func (l *Lot) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("lote %s: débito %s: %w", l.ID, amount, domain.ErrInvalidInput)
	}
	if amount.GreaterThan(l.QuantityRemaining) {
		return fmt.Errorf("lote %s: débito %s > remanente %s: %w",
			l.ID, amount, l.QuantityRemaining, domain.ErrInsufficientLotQuantity)
	}
	l.QuantityRemaining = l.QuantityRemaining.Sub(amount)
	return nil
}

// Active indica si al lote le queda cantidad.
func (l *Lot) Active() bool {
	return l.QuantityRemaining.IsPositive()
}

// DateOnly trunca t a la fecha (UTC, 00:00).
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween cuenta los días de calendario de from a to (negativo si to es anterior).
// Trabaja con segundos Unix: time.Duration satura a los ~292 años.
func DaysBetween(from, to time.Time) int {
	return int((DateOnly(to).Unix() - DateOnly(from).Unix()) / 86400)
}
