package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo implementación en memoria del registro de traslados
// (append-only).
type StockTransferRepo struct {
	mu        sync.RWMutex
	transfers []*entity.StockTransfer
}

// NewStockTransferRepository construye el repositorio vacío.
func NewStockTransferRepository() *StockTransferRepo {
	return &StockTransferRepo{}
}

func (r *StockTransferRepo) Create(ctx context.Context, transfer *entity.StockTransfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *transfer
	r.transfers = append(r.transfers, &cp)
	return nil
}

func (r *StockTransferRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.StockTransfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.transfers {
		if t.TenantID == tenantID && t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *StockTransferRepo) ListByBranch(ctx context.Context, tenantID, branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.StockTransfer
	for _, t := range r.transfers {
		if t.TenantID != tenantID {
			continue
		}
		if t.FromBranchID != branchID && t.ToBranchID != branchID {
			continue
		}
		if from != nil && t.TransferredAt.Before(*from) {
			continue
		}
		if to != nil && !t.TransferredAt.Before(*to) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransferredAt.Before(out[j].TransferredAt) })
	return paginate(out, limit, offset), nil
}

// Count cantidad total de traslados registrados (para tests).
func (r *StockTransferRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.transfers)
}
