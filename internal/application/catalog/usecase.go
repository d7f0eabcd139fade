// Package catalog expone las lecturas del catálogo que el motor de stock
// necesita publicar: sucursales del tenant y fichas de medicamentos.
package catalog

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// CatalogUseCase lecturas de sucursales y medicamentos.
type CatalogUseCase struct {
	branchRepo   repository.BranchRepository
	medicineRepo repository.MedicineRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(branchRepo repository.BranchRepository, medicineRepo repository.MedicineRepository) *CatalogUseCase {
	return &CatalogUseCase{branchRepo: branchRepo, medicineRepo: medicineRepo}
}

// ListBranches sucursales del tenant.
func (uc *CatalogUseCase) ListBranches(ctx context.Context, tenantID string) ([]*entity.Branch, error) {
	return uc.branchRepo.ListByTenant(ctx, tenantID)
}

// GetBranch sucursal por ID. domain.ErrNotFound si no existe.
func (uc *CatalogUseCase) GetBranch(ctx context.Context, tenantID, branchID string) (*entity.Branch, error) {
	return uc.branchRepo.GetByID(ctx, tenantID, branchID)
}

// GetMedicine ficha del medicamento por ID. domain.ErrNotFound si no existe.
func (uc *CatalogUseCase) GetMedicine(ctx context.Context, tenantID, medicineID string) (*entity.Medicine, error) {
	return uc.medicineRepo.GetByID(ctx, tenantID, medicineID)
}
