package repository

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// MedicineRepository consulta del catálogo de medicamentos (solo lectura aquí).
type MedicineRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Medicine, error)
	GetByName(ctx context.Context, tenantID, name string) (*entity.Medicine, error)
}
