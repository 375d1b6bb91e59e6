package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrNoConversionPath    = errors.New("no existe conversión de unidad")
	ErrInvalidState        = errors.New("estado inválido para la operación")
	ErrInvalidTransition   = errors.New("transición de estado inválida")
	ErrActiveTaskExists    = errors.New("ya existe una tarea de picking activa")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia")
)

// ValidationError entrada mal formada: cantidad negativa, unidad desconocida, campo requerido vacío.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validación: " + e.Message
	}
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NoConversionPathError no hay factor directo ni inverso entre las unidades del ítem.
type NoConversionPathError struct {
	ItemID string
	From   string
	To     string
}

func (e *NoConversionPathError) Error() string {
	return fmt.Sprintf("sin conversión para ítem %s: %s -> %s", e.ItemID, e.From, e.To)
}

func (e *NoConversionPathError) Unwrap() error { return ErrNoConversionPath }

// InsufficientStockError la ubicación origen no cubre la cantidad solicitada.
type InsufficientStockError struct {
	ItemID     string
	LocationID string
	Available  decimal.Decimal
	Requested  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en ubicación %s para ítem %s: disponible %s, solicitado %s",
		e.LocationID, e.ItemID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidStateError la operación no está permitida en el estado actual de la entidad.
type InvalidStateError struct {
	Entity    string
	ID        string
	Status    string
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s en estado %s no admite %s", e.Entity, e.ID, e.Status, e.Operation)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// InvalidTransitionError el par (desde, hacia) no es una arista de la máquina de estados.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: transición %s -> %s no permitida", e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// ActiveTaskExistsError la orden ya tiene una tarea de picking OPEN o IN_PROGRESS.
type ActiveTaskExistsError struct {
	OrderID    string
	TaskNumber string
}

func (e *ActiveTaskExistsError) Error() string {
	if e.TaskNumber == "" {
		return fmt.Sprintf("la orden %s ya tiene una tarea de picking activa", e.OrderID)
	}
	return fmt.Sprintf("la orden %s ya tiene la tarea de picking activa %s", e.OrderID, e.TaskNumber)
}

func (e *ActiveTaskExistsError) Unwrap() error { return ErrActiveTaskExists }

// ConcurrencyConflictError se agotaron los reintentos ante fallos de serialización.
type ConcurrencyConflictError struct {
	Attempts int
	Cause    error
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("conflicto de concurrencia tras %d intentos: %v", e.Attempts, e.Cause)
}

func (e *ConcurrencyConflictError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConcurrencyConflict}
	}
	return []error{ErrConcurrencyConflict, e.Cause}
}

// Code devuelve un código estable para el error (respuestas HTTP, métricas, auditoría).
func Code(err error) string {
	switch {
	case err == nil:
		return "OK"
	case errors.Is(err, ErrInvalidInput):
		return "VALIDATION"
	case errors.Is(err, ErrNoConversionPath):
		return "NO_CONVERSION_PATH"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, ErrActiveTaskExists):
		return "ACTIVE_TASK_EXISTS"
	case errors.Is(err, ErrConcurrencyConflict):
		return "CONCURRENCY_CONFLICT"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrDuplicate):
		return "DUPLICATE"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}
