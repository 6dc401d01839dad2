package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-lotes/internal/application/dto"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
)

// ReceiveFromRequest adapta el request HTTP al caso de uso Receive(ctx, ReceiveInput).
func (uc *LedgerUseCase) ReceiveFromRequest(ctx context.Context, in dto.ReceiveRequest) (*dto.LotResponse, error) {
	expiry, err := ParseDate(in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	lot, err := uc.Receive(ctx, ReceiveInput{
		ItemID:   in.ItemID,
		Quantity: in.Quantity,
		Expiry:   expiry,
		Note:     in.Note,
	})
	if err != nil {
		return nil, err
	}
	out := ToLotResponse(*lot)
	return &out, nil
}

// IssueFromRequest adapta el request HTTP al caso de uso Issue(ctx, IssueInput).
func (uc *LedgerUseCase) IssueFromRequest(ctx context.Context, in dto.IssueRequest) (*dto.IssueResponse, error) {
	res, err := uc.Issue(ctx, IssueInput{
		ItemID:   in.ItemID,
		Quantity: in.Quantity,
		Note:     in.Note,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.IssueResponse{
		ItemID:    in.ItemID,
		Requested: res.Requested,
		Issued:    res.Issued,
		Shortfall: res.Shortfall,
		Partial:   res.Shortfall.IsPositive(),
		Movements: make([]dto.MovementResponse, 0, len(res.Movements)),
	}
	for _, m := range res.Movements {
		out.Movements = append(out.Movements, ToMovementResponse(m))
	}
	return out, nil
}

// ParseDate interpreta una fecha YYYY-MM-DD; vacío devuelve nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dto.DateLayout)
	return &s
}

// ToLotResponse mapea un lote a su DTO.
func ToLotResponse(l entity.Lot) dto.LotResponse {
	return dto.LotResponse{
		ID:                l.ID,
		ItemID:            l.ItemID,
		QuantityReceived:  l.QuantityReceived,
		QuantityRemaining: l.QuantityRemaining,
		ExpiryDate:        formatDate(l.ExpiryDate),
		ReceivedAt:        l.ReceivedAt,
	}
}

// ToMovementResponse mapea un movimiento a su DTO.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		ItemID:    m.ItemID,
		ItemName:  m.ItemName,
		Type:      m.Kind,
		Quantity:  m.Quantity,
		LotID:     m.LotID,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
	}
}

// ToSummaryResponse mapea un resumen de stock a su DTO.
func ToSummaryResponse(s entity.StockSummary) dto.StockSummaryResponse {
	return dto.StockSummaryResponse{
		ItemID:        s.ItemID,
		Name:          s.Name,
		CategoryID:    s.CategoryID,
		CategoryName:  s.CategoryName,
		Balance:       s.Balance,
		NextExpiry:    formatDate(s.NextExpiry),
		LastReceiveAt: s.LastReceiveAt,
		LastIssueAt:   s.LastIssueAt,
	}
}

// ToCategoryGroupResponse mapea un grupo de resúmenes a su DTO.
func ToCategoryGroupResponse(g CategoryGroup) dto.CategoryGroupResponse {
	out := dto.CategoryGroupResponse{Items: make([]dto.StockSummaryResponse, 0, len(g.Summaries))}
	if g.Category != nil {
		out.Category = &dto.CategoryResponse{ID: g.Category.ID, Name: g.Category.Name, CreatedAt: g.Category.CreatedAt}
	}
	for _, s := range g.Summaries {
		out.Items = append(out.Items, ToSummaryResponse(s))
	}
	return out
}
