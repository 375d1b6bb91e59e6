package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fulfillment-ledger/internal/application/dto"
	"github.com/jhoicas/fulfillment-ledger/internal/domain"
)

// statusByCode código de dominio -> estado HTTP.
var statusByCode = map[string]int{
	"VALIDATION":           fiber.StatusBadRequest,
	"NO_CONVERSION_PATH":   fiber.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":   fiber.StatusConflict,
	"INVALID_STATE":        fiber.StatusConflict,
	"INVALID_TRANSITION":   fiber.StatusConflict,
	"ACTIVE_TASK_EXISTS":   fiber.StatusConflict,
	"CONCURRENCY_CONFLICT": fiber.StatusConflict,
	"DUPLICATE":            fiber.StatusConflict,
	"CONFLICT":             fiber.StatusConflict,
	"NOT_FOUND":            fiber.StatusNotFound,
	"FORBIDDEN":            fiber.StatusForbidden,
	"UNAUTHORIZED":         fiber.StatusUnauthorized,
}

// writeError traduce el error de dominio a la respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func forbiddenSite(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "sitio no habilitado para el usuario"})
}
