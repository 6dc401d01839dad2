package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-lotes/internal/application/dto"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/pkg/logger"
)

// errorMapper traduce errores de dominio a respuestas HTTP.
type errorMapper struct {
	log *logger.Logger
}

// internalMessage es lo único que ve el cliente de un 500; el detalle queda en el log.
const internalMessage = "error interno"

// respond escribe el dto.ErrorResponse que corresponde a err.
func (m errorMapper) respond(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	if status != fiber.StatusInternalServerError {
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
	}
	msg := internalMessage
	if errors.Is(err, domain.ErrInsufficientLotQuantity) {
		msg = "invariante de lote violada"
	}
	m.log.Error().Err(err).Str("path", c.Path()).Msg(msg)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: internalMessage})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrContention):
		return fiber.StatusServiceUnavailable, "CONTENTION"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: msg})
}
