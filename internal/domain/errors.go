package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidState      = errors.New("operación no permitida en el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrAlreadyVoided     = errors.New("la venta ya fue anulada")
	ErrConflict          = errors.New("conflicto con un recurso existente")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// ValidationError indica un campo faltante o mal formado. Envuelve ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NotFoundError indica que un recurso referenciado no existe. Envuelve ErrNotFound.
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFoundError construye un NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidStateError indica una transición no permitida desde el estado actual.
type InvalidStateError struct {
	Resource  string
	ID        string
	State     string
	Operation string
}

// NewInvalidStateError construye un InvalidStateError.
func NewInvalidStateError(resource, id, state, operation string) *InvalidStateError {
	return &InvalidStateError{Resource: resource, ID: id, State: state, Operation: operation}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %q en estado %q no admite %q", e.Resource, e.ID, e.State, e.Operation)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// InsufficientStockError describe una deducción que excede lo disponible en el alcance.
// BatchID vacío significa que el alcance era FIFO (producto + tienda).
type InsufficientStockError struct {
	ProductID string
	StoreID   string
	BatchID   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.BatchID != "" {
		return fmt.Sprintf("%s: lote %s tiene %d, se solicitaron %d", ErrInsufficientStock, e.BatchID, e.Available, e.Requested)
	}
	return fmt.Sprintf("%s: producto %s en tienda %s tiene %d, se solicitaron %d",
		ErrInsufficientStock, e.ProductID, e.StoreID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// AlreadyVoidedError se devuelve al anular por segunda vez una venta.
type AlreadyVoidedError struct {
	InvoiceNumber string
}

func (e *AlreadyVoidedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAlreadyVoided, e.InvoiceNumber)
}

func (e *AlreadyVoidedError) Unwrap() error { return ErrAlreadyVoided }

// ConflictError indica violación de unicidad (número de documento, SKU, usuario...).
type ConflictError struct {
	Resource string
	Key      string
}

// NewConflictError construye un ConflictError.
func NewConflictError(resource, key string) *ConflictError {
	return &ConflictError{Resource: resource, Key: key}
}

func (e *ConflictError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", ErrConflict, e.Resource)
	}
	return fmt.Sprintf("%s: %s %q", ErrConflict, e.Resource, e.Key)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
