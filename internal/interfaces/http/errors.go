package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain"
)

// mapError traduce los errores de dominio a respuestas HTTP. Todo lo que no es
// un rechazo conocido se reporta como fallo interno sin filtrar detalles.
func mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrBatchNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "BATCH_NOT_FOUND", Message: "lote no encontrado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrInvalidTransfer):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_TRANSFER", Message: "traslado inválido"})
	case errors.Is(err, domain.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION", Message: "conflicto de concurrencia, reintente"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrPersistence):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: "error de persistencia"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
