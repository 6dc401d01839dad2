package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockSummary vista derivada del stock de un ítem (no se persiste).
type StockSummary struct {
	ItemID        string
	Name          string
	CategoryID    string
	CategoryName  string
	Balance       decimal.Decimal // suma de remanentes de sus lotes
	NextExpiry    *time.Time      // vencimiento más próximo entre lotes activos con fecha
	LastReceiveAt *time.Time
	LastIssueAt   *time.Time
}
