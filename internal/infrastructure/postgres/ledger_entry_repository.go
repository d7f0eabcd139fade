package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo implementación del libro de stock sobre PostgreSQL
// (tabla ledger_entries, append-only).
type LedgerEntryRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerEntryRepository(q Querier) *LedgerEntryRepo {
	return &LedgerEntryRepo{q: q}
}

func (r *LedgerEntryRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (
			id, tenant_id, batch_id, medicine_id, branch_id, kind,
			quantity, unit_price, total, reference, occurred_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.TenantID, e.BatchID, e.MedicineID, e.BranchID, e.Kind,
		e.Quantity, e.UnitPrice, e.Total, e.Reference, e.OccurredAt, e.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerEntryRepo) ListByBatch(ctx context.Context, tenantID, batchID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, tenant_id, batch_id, medicine_id, branch_id, kind,
		       quantity, unit_price, total, reference, occurred_at, created_by
		FROM ledger_entries
		WHERE tenant_id = $1 AND batch_id = $2
		ORDER BY occurred_at LIMIT $3 OFFSET $4`
	return r.list(ctx, query, tenantID, batchID, limit, offset)
}

func (r *LedgerEntryRepo) ListByBranch(ctx context.Context, tenantID, branchID string, from, to time.Time) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, tenant_id, batch_id, medicine_id, branch_id, kind,
		       quantity, unit_price, total, reference, occurred_at, created_by
		FROM ledger_entries
		WHERE tenant_id = $1 AND branch_id = $2
		  AND occurred_at >= $3 AND occurred_at < $4
		ORDER BY occurred_at`
	return r.list(ctx, query, tenantID, branchID, from, to)
}

func (r *LedgerEntryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var out []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.BatchID, &e.MedicineID, &e.BranchID, &e.Kind,
			&e.Quantity, &e.UnitPrice, &e.Total, &e.Reference, &e.OccurredAt, &e.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
