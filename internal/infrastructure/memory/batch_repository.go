package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación en memoria de BatchRepository. Para tests y para
// correr el motor sin PostgreSQL. Las escrituras usan CAS por Version igual
// que el adaptador de base de datos.
type BatchRepo struct {
	mu      sync.RWMutex
	batches map[string]*entity.Batch // por ID; se guardan copias
}

// NewBatchRepository construye el repositorio vacío.
func NewBatchRepository() *BatchRepo {
	return &BatchRepo{batches: make(map[string]*entity.Batch)}
}

func (r *BatchRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.batches[id]
	if !ok || b.TenantID != tenantID {
		return nil, domain.ErrBatchNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *BatchRepo) GetByLot(ctx context.Context, tenantID, medicineID, branchID, batchNumber string) (*entity.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.batches {
		if b.TenantID == tenantID && b.MedicineID == medicineID &&
			b.BranchID == branchID && b.BatchNumber == batchNumber {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrBatchNotFound
}

func (r *BatchRepo) Create(ctx context.Context, batch *entity.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.batches[batch.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, b := range r.batches {
		if b.TenantID == batch.TenantID && b.MedicineID == batch.MedicineID &&
			b.BranchID == batch.BranchID && b.BatchNumber == batch.BatchNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *batch
	r.batches[batch.ID] = &cp
	return nil
}

// Update escribe el lote solo si la versión coincide con la persistida
// (compare-and-swap); si no, ErrConcurrentModification sin efecto alguno.
func (r *BatchRepo) Update(ctx context.Context, batch *entity.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.batches[batch.ID]
	if !ok || current.TenantID != batch.TenantID {
		return domain.ErrBatchNotFound
	}
	if current.Version != batch.Version {
		return domain.ErrConcurrentModification
	}
	cp := *batch
	cp.Version++
	cp.UpdatedAt = time.Now()
	r.batches[batch.ID] = &cp
	batch.Version = cp.Version
	batch.UpdatedAt = cp.UpdatedAt
	return nil
}

func (r *BatchRepo) ListByBranch(ctx context.Context, tenantID, branchID string, limit, offset int) ([]*entity.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []*entity.Batch
	for _, b := range r.batches {
		if b.TenantID == tenantID && b.BranchID == branchID {
			cp := *b
			all = append(all, &cp)
		}
	}
	sortBatches(all)
	return paginate(all, limit, offset), nil
}

func (r *BatchRepo) ListBelowMinimum(ctx context.Context, tenantID, branchID string) ([]*entity.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Batch
	for _, b := range r.batches {
		if b.TenantID == tenantID && b.BranchID == branchID && !b.IsRetired() && b.IsBelowMinimum() {
			cp := *b
			out = append(out, &cp)
		}
	}
	sortBatches(out)
	return out, nil
}

// ListTenants enumera los tenants con lotes registrados (para el escáner).
func (r *BatchRepo) ListTenants(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, b := range r.batches {
		if _, ok := seen[b.TenantID]; !ok {
			seen[b.TenantID] = struct{}{}
			out = append(out, b.TenantID)
		}
	}
	return out, nil
}

func (r *BatchRepo) ListExpiringBefore(ctx context.Context, tenantID string, cutoff time.Time) ([]*entity.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Batch
	for _, b := range r.batches {
		if b.TenantID == tenantID && b.QuantityInStock > 0 && b.ExpiryDate.Before(cutoff) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sortBatches(out)
	return out, nil
}
