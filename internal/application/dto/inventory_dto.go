package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fechas de vencimiento y filtros (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ReceiveRequest body para POST /api/inventory/receive.
type ReceiveRequest struct {
	ItemID     string          `json:"item_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	ExpiryDate string          `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Note       string          `json:"note,omitempty" validate:"max=255"`
}

// IssueRequest body para POST /api/inventory/issue.
type IssueRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Note     string          `json:"note,omitempty" validate:"max=255"`
}

// LotResponse lote en respuestas.
type LotResponse struct {
	ID                string          `json:"id"`
	ItemID            string          `json:"item_id"`
	QuantityReceived  decimal.Decimal `json:"quantity_received"`
	QuantityRemaining decimal.Decimal `json:"quantity_remaining"`
	ExpiryDate        *string         `json:"expiry_date"` // null = no vence
	ReceivedAt        time.Time       `json:"received_at"`
}

// IssueResponse resultado de una salida. Si shortfall > 0 la salida fue parcial:
// se despachó todo lo disponible y partial=true avisa al cliente.
type IssueResponse struct {
	ItemID    string             `json:"item_id"`
	Requested decimal.Decimal    `json:"requested"`
	Issued    decimal.Decimal    `json:"issued"`
	Shortfall decimal.Decimal    `json:"shortfall"`
	Partial   bool               `json:"partial"`
	Movements []MovementResponse `json:"movements"`
}

// StockSummaryResponse resumen de stock de un ítem.
type StockSummaryResponse struct {
	ItemID        string          `json:"item_id"`
	Name          string          `json:"name"`
	CategoryID    string          `json:"category_id,omitempty"`
	CategoryName  string          `json:"category_name,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	NextExpiry    *string         `json:"next_expiry"`
	LastReceiveAt *time.Time      `json:"last_receive_at"`
	LastIssueAt   *time.Time      `json:"last_issue_at"`
}

// SummaryListResponse listado de resúmenes.
type SummaryListResponse struct {
	Total int                    `json:"total"`
	Items []StockSummaryResponse `json:"items"`
}

// CategoryGroupResponse resúmenes agrupados por categoría (category nil = sin categoría).
type CategoryGroupResponse struct {
	Category *CategoryResponse      `json:"category"`
	Items    []StockSummaryResponse `json:"items"`
}

// ExpiringLotDTO lote activo próximo a vencer (o ya vencido si DaysToExpiry < 0).
type ExpiringLotDTO struct {
	Priority     int             `json:"priority"` // 1 = más urgente
	LotID        string          `json:"lot_id"`
	ItemID       string          `json:"item_id"`
	ItemName     string          `json:"item_name"`
	CategoryName string          `json:"category_name,omitempty"`
	ExpiryDate   string          `json:"expiry_date"`
	DaysToExpiry int             `json:"days_to_expiry"`
	Remaining    decimal.Decimal `json:"remaining"`
}

// StockReportDTO datos del reporte de stock en PDF.
type StockReportDTO struct {
	Title       string
	GeneratedAt time.Time
	Groups      []CategoryGroupResponse
	Expiring    []ExpiringLotDTO
}
