package entity

import "time"

// MaxNameLength largo máximo del nombre de un ítem o categoría.
const MaxNameLength = 180

// Item representa un artículo de inventario que se recibe por lotes y se despacha contra ellos.
// El stock no se guarda aquí: se deriva de los lotes (ver StockSummary).
type Item struct {
	ID         string
	Name       string // único sin distinguir mayúsculas
	CategoryID string // vacío si no tiene categoría
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
