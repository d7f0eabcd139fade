package repository

import (
	"context"
	"time"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// LedgerEntryRepository define el puerto de persistencia del libro de stock
// (append-only; un asiento por cada Apply exitoso).
type LedgerEntryRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	ListByBatch(ctx context.Context, tenantID, batchID string, limit, offset int) ([]*entity.LedgerEntry, error)
	ListByBranch(ctx context.Context, tenantID, branchID string, from, to time.Time) ([]*entity.LedgerEntry, error)
}
