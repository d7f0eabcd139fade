package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrBatchNotFound          = errors.New("lote no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidTransfer        = errors.New("traslado inválido")
	ErrConcurrentModification = errors.New("conflicto de concurrencia sobre el lote")
	ErrPersistence            = errors.New("error de persistencia")
)
