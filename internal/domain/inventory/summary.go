package inventory

import (
	"time"

	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BuildSummary calcula las cantidades derivadas de un ítem a partir de sus lotes:
// saldo = suma de remanentes; próximo vencimiento = mínimo ExpiryDate entre lotes activos
// con fecha (los lotes sin vencimiento no cuentan como "el más próximo").
func BuildSummary(item entity.Item, categoryName string, lots []entity.Lot, lastReceive, lastIssue *time.Time) entity.StockSummary {
	s := entity.StockSummary{
		ItemID:        item.ID,
		Name:          item.Name,
		CategoryID:    item.CategoryID,
		CategoryName:  categoryName,
		Balance:       decimal.Zero,
		LastReceiveAt: lastReceive,
		LastIssueAt:   lastIssue,
	}
	for _, l := range lots {
		s.Balance = s.Balance.Add(l.QuantityRemaining)
		if !l.Active() || l.ExpiryDate == nil {
			continue
		}
		if s.NextExpiry == nil || l.ExpiryDate.Before(*s.NextExpiry) {
			exp := *l.ExpiryDate
			s.NextExpiry = &exp
		}
	}
	return s
}
