package entity

import (
	"strings"
	"time"
)

// Category representa un tipo o grupo de ítems. El nombre es único sin distinguir mayúsculas.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// NormalizeName limpia espacios al inicio y al final de un nombre de ítem o categoría.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NameKey clave de unicidad de un nombre (sin distinguir mayúsculas).
func NameKey(name string) string {
	return strings.ToLower(NormalizeName(name))
}
