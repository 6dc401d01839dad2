package repository

import (
	"strings"
	"time"

	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
)

// Límites de paginación del historial.
const (
	DefaultMovementLimit = 100
	MaxMovementLimit     = 1000
)

// ItemFilter opciones reconocidas para listar ítems / resúmenes.
type ItemFilter struct {
	CategoryID   string // vacío = todas
	NameContains string // subcadena sin distinguir mayúsculas; vacío = sin filtro
}

// Normalize limpia espacios de los campos de texto.
func (f ItemFilter) Normalize() ItemFilter {
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	f.NameContains = strings.TrimSpace(f.NameContains)
	return f
}

// MovementFilter opciones reconocidas para consultar el historial.
type MovementFilter struct {
	ItemID string     // vacío = todos los ítems
	Kind   string     // "", "receive" o "issue"
	From   *time.Time // inclusive
	Until  *time.Time // exclusivo
	Text   string     // subcadena sin distinguir mayúsculas sobre nombre del ítem o nota
	Limit  int
	Offset int
}

// Validate verifica el filtro y aplica valores por defecto de paginación.
func (f *MovementFilter) Validate() error {
	f.Text = strings.TrimSpace(f.Text)
	if f.Kind != "" && !entity.ValidMovementKind(f.Kind) {
		return domain.ErrInvalidInput
	}
	if f.From != nil && f.Until != nil && !f.From.Before(*f.Until) {
		return domain.ErrInvalidInput
	}
	if f.Limit < 0 || f.Offset < 0 {
		return domain.ErrInvalidInput
	}
	if f.Limit == 0 {
		f.Limit = DefaultMovementLimit
	}
	if f.Limit > MaxMovementLimit {
		f.Limit = MaxMovementLimit
	}
	return nil
}

// Matches aplica el filtro a un movimiento en memoria (almacenamientos sin SQL).
// No considera la paginación.
func (f MovementFilter) Matches(m *entity.Movement) bool {
	if f.ItemID != "" && m.ItemID != f.ItemID {
		return false
	}
	if f.Kind != "" && m.Kind != f.Kind {
		return false
	}
	if f.From != nil && m.CreatedAt.Before(*f.From) {
		return false
	}
	if f.Until != nil && !m.CreatedAt.Before(*f.Until) {
		return false
	}
	if f.Text != "" {
		text := strings.ToLower(f.Text)
		if !strings.Contains(strings.ToLower(m.ItemName), text) && !strings.Contains(strings.ToLower(m.Note), text) {
			return false
		}
	}
	return true
}
