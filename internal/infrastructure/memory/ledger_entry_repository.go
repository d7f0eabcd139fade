package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo implementación en memoria del libro de stock (append-only).
type LedgerEntryRepo struct {
	mu      sync.RWMutex
	entries []*entity.LedgerEntry
}

// NewLedgerEntryRepository construye el repositorio vacío.
func NewLedgerEntryRepository() *LedgerEntryRepo {
	return &LedgerEntryRepo{}
}

func (r *LedgerEntryRepo) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *LedgerEntryRepo) ListByBatch(ctx context.Context, tenantID, batchID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.LedgerEntry
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.BatchID == batchID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sortEntries(out)
	return paginate(out, limit, offset), nil
}

func (r *LedgerEntryRepo) ListByBranch(ctx context.Context, tenantID, branchID string, from, to time.Time) ([]*entity.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.LedgerEntry
	for _, e := range r.entries {
		if e.TenantID != tenantID || e.BranchID != branchID {
			continue
		}
		if e.OccurredAt.Before(from) || !e.OccurredAt.Before(to) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sortEntries(out)
	return out, nil
}

func sortEntries(entries []*entity.LedgerEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].OccurredAt.Before(entries[j].OccurredAt) })
}
