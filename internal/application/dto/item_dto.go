package dto

import "time"

// CreateItemRequest entrada para crear un ítem.
type CreateItemRequest struct {
	Name       string `json:"name" validate:"required,max=180"`
	CategoryID string `json:"category_id,omitempty" validate:"omitempty,uuid"`
}

// UpdateItemRequest entrada para renombrar o recategorizar un ítem.
// CategoryID vacío ("") quita la categoría; nil la deja como está.
type UpdateItemRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=180"`
	CategoryID *string `json:"category_id" validate:"omitempty,uuid"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CategoryID string    `json:"category_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ItemQuery parámetros de GET /api/items.
type ItemQuery struct {
	CategoryID string `query:"category_id"`
	Q          string `query:"q"`
	Group      string `query:"group" validate:"omitempty,oneof=category"`
}
