package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo implementación de StockTransferRepository sobre PostgreSQL.
// Tabla stock_transfers append-only con FK al lote origen.
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

func (r *StockTransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	query := `
		INSERT INTO stock_transfers (
			id, tenant_id, batch_id, medicine_id, batch_number,
			from_branch_id, to_branch_id, quantity, transferred_at, transferred_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TenantID, t.BatchID, t.MedicineID, t.BatchNumber,
		t.FromBranchID, t.ToBranchID, t.Quantity, t.TransferredAt, t.TransferredBy,
	)
	if err != nil {
		return fmt.Errorf("create stock transfer: %w", err)
	}
	return nil
}

func (r *StockTransferRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.StockTransfer, error) {
	query := `
		SELECT id, tenant_id, batch_id, medicine_id, batch_number,
		       from_branch_id, to_branch_id, quantity, transferred_at, transferred_by
		FROM stock_transfers WHERE tenant_id = $1 AND id = $2`
	var t entity.StockTransfer
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&t.ID, &t.TenantID, &t.BatchID, &t.MedicineID, &t.BatchNumber,
		&t.FromBranchID, &t.ToBranchID, &t.Quantity, &t.TransferredAt, &t.TransferredBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	return &t, nil
}

func (r *StockTransferRepo) ListByBranch(ctx context.Context, tenantID, branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransfer, error) {
	query := `
		SELECT id, tenant_id, batch_id, medicine_id, batch_number,
		       from_branch_id, to_branch_id, quantity, transferred_at, transferred_by
		FROM stock_transfers
		WHERE tenant_id = $1 AND (from_branch_id = $2 OR to_branch_id = $2)
		  AND ($3::timestamptz IS NULL OR transferred_at >= $3)
		  AND ($4::timestamptz IS NULL OR transferred_at < $4)
		ORDER BY transferred_at LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, tenantID, branchID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock transfers: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockTransfer
	for rows.Next() {
		var t entity.StockTransfer
		if err := rows.Scan(
			&t.ID, &t.TenantID, &t.BatchID, &t.MedicineID, &t.BatchNumber,
			&t.FromBranchID, &t.ToBranchID, &t.Quantity, &t.TransferredAt, &t.TransferredBy,
		); err != nil {
			return nil, fmt.Errorf("scan stock transfer: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
