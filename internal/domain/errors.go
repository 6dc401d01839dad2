package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("nombre duplicado")

	// ErrInsufficientStock solo aparece con la política estricta de salidas
	// (todo o nada); con la política parcial el faltante se informa en el resultado.
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrInsufficientLotQuantity indica que se intentó debitar de un lote más de lo
	// que le queda. El asignador nunca lo produce; si aparece es un bug de concurrencia.
	ErrInsufficientLotQuantity = errors.New("cantidad insuficiente en el lote")

	// ErrContention conflicto transaccional o espera de bloqueo agotada. Reintentable.
	ErrContention = errors.New("conflicto de concurrencia, reintente")
)
