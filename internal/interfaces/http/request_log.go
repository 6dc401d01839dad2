package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-lotes/pkg/logger"
	"github.com/rs/zerolog"
)

// RequestLogger registra cada petición con su estado y latencia.
// 5xx se registra como error, 4xx como warn y el resto como info.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// deja que el ErrorHandler de fiber fije el estado antes de registrar
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP())
		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			ev.Str("request_id", id)
		}
		if q := string(c.Request().URI().QueryString()); q != "" {
			ev.Str("query", q)
		}
		ev.Msg("petición HTTP")
		return nil
	}
}
