package entity

import "time"

// Medicine representa un medicamento del catálogo del tenant.
// El motor de stock lo referencia por ID; el CRUD del catálogo es externo.
type Medicine struct {
	ID          string
	TenantID    string
	Name        string
	Composition string
	Barcode     string
	CreatedAt   time.Time
}
