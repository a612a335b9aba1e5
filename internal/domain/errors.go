package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidMovementType = errors.New("tipo de movimiento inválido")
	ErrInvalidQuantity     = errors.New("cantidad inválida")
	ErrItemHasMovements    = errors.New("el ítem tiene movimientos registrados")
	ErrSideEffectFailed    = errors.New("efecto secundario fallido")
)

// ValidationError indica que la entrada fue rechazada antes de cualquier escritura.
// errors.Is(err, ErrInvalidInput) es siempre verdadero; Err permite distinguir la causa concreta.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError construye un ValidationError con causa ErrInvalidInput.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientStockError una salida dejaría el stock en negativo.
type InsufficientStockError struct {
	ItemID       string
	CurrentStock int64
	Requested    int64
	Shortfall    int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el ítem %s: disponible %d, solicitado %d, faltante %d",
		e.ItemID, e.CurrentStock, e.Requested, e.Shortfall)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ConcurrencyConflictError se detectó una actualización perdida sobre los campos derivados del ítem.
// El llamador debe reintentar la operación completa.
type ConcurrencyConflictError struct {
	ItemID          string
	ExpectedVersion int64
	ActualVersion   int64
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("conflicto de concurrencia en el ítem %s: versión esperada %d, actual %d",
		e.ItemID, e.ExpectedVersion, e.ActualVersion)
}

func (e *ConcurrencyConflictError) Unwrap() error { return ErrConflict }

// SideEffectError falla de un efecto posterior al commit (p. ej. el registro de COGS).
// El movimiento que lo originó permanece confirmado.
type SideEffectError struct {
	Effect     string
	MovementID string
	Err        error
}

func (e *SideEffectError) Error() string {
	return fmt.Sprintf("%s (movimiento %s): %v", e.Effect, e.MovementID, e.Err)
}

func (e *SideEffectError) Unwrap() []error { return []error{ErrSideEffectFailed, e.Err} }

// IsRetryable reporta si el llamador puede reintentar la operación completa.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsClientError reporta errores causados por la entrada del llamador.
func IsClientError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrItemHasMovements):
		return true
	}
	return false
}
