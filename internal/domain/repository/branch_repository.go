package repository

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// BranchRepository consulta de sucursales (solo lectura para el motor de stock).
type BranchRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Branch, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Branch, error)
}
