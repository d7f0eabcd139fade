package repository

import (
	"context"
	"time"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia de lotes (DIP).
// Update es condicional por Version (CAS): si la versión persistida no coincide
// retorna domain.ErrConcurrentModification y no escribe nada.
type BatchRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Batch, error)
	// GetByLot resuelve el lote por su identidad de negocio
	// (medicamento, sucursal, número de lote). nil, ErrBatchNotFound si no existe.
	GetByLot(ctx context.Context, tenantID, medicineID, branchID, batchNumber string) (*entity.Batch, error)
	Create(ctx context.Context, batch *entity.Batch) error
	Update(ctx context.Context, batch *entity.Batch) error
	ListByBranch(ctx context.Context, tenantID, branchID string, limit, offset int) ([]*entity.Batch, error)
	// ListBelowMinimum devuelve los lotes no retirados de la sucursal con
	// QuantityInStock < MinStockLevel.
	ListBelowMinimum(ctx context.Context, tenantID, branchID string) ([]*entity.Batch, error)
	ListExpiringBefore(ctx context.Context, tenantID string, cutoff time.Time) ([]*entity.Batch, error)
}
