package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementQuery parámetros de GET /api/movements.
type MovementQuery struct {
	Type   string `query:"type" validate:"omitempty,oneof=all receive issue"`
	ItemID string `query:"item_id"`
	Start  string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End    string `query:"end" validate:"omitempty,datetime=2006-01-02"` // inclusivo: todo el día
	Q      string `query:"q"`
	Limit  int    `query:"limit" validate:"min=0,max=1000"`
	Offset int    `query:"offset" validate:"min=0"`
}

// MovementResponse movimiento en respuestas.
type MovementResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name,omitempty"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	LotID     string          `json:"lot_id,omitempty"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// MovementListResponse listado de movimientos.
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
	Page      PageResponse       `json:"page"`
}
