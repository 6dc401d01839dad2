package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/shopspring/decimal"
)

// Tipos de movimiento.
const (
	MovementKindReceive = "receive" // entrada de un lote
	MovementKindIssue   = "issue"   // salida debitada de un lote
)

// Movement hecho inmutable: una variación de cantidad sobre un único lote.
// Una salida que toca varios lotes genera un Movement por lote.
type Movement struct {
	ID        string
	ItemID    string
	ItemName  string // solo lectura, lo completan las consultas
	Kind      string
	Quantity  decimal.Decimal // siempre positiva; el tipo indica el sentido
	LotID     string
	Note      string
	CreatedAt time.Time
	Seq       int64 // orden de inserción, desempate de CreatedAt
}

// ValidMovementKind indica si kind es un tipo de movimiento conocido.
func ValidMovementKind(kind string) bool {
	return kind == MovementKindReceive || kind == MovementKindIssue
}

// NewMovement construye un movimiento validando tipo y cantidad (> 0).
func NewMovement(itemID, kind string, quantity decimal.Decimal, lotID, note string, now time.Time) (*Movement, error) {
	if itemID == "" || !ValidMovementKind(kind) || !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	return &Movement{
		ID:        uuid.New().String(),
		ItemID:    itemID,
		Kind:      kind,
		Quantity:  quantity,
		LotID:     lotID,
		Note:      note,
		CreatedAt: now,
	}, nil
}
