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

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
// Tabla batches: unique (tenant_id, medicine_id, branch_id, batch_number),
// columna version para el update condicional y constraint quantity_in_stock >= 0
// como última línea de defensa.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `
	id, tenant_id, medicine_id, branch_id, batch_number, expiry_date,
	quantity_in_stock, quantity_sold, quantity_out,
	purchase_price, retail_price, min_stock_level, stock_handling_method,
	version, created_at, created_by, updated_at`

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(
		&b.ID, &b.TenantID, &b.MedicineID, &b.BranchID, &b.BatchNumber, &b.ExpiryDate,
		&b.QuantityInStock, &b.QuantitySold, &b.QuantityOut,
		&b.PurchasePrice, &b.RetailPrice, &b.MinStockLevel, &b.StockHandlingMethod,
		&b.Version, &b.CreatedAt, &b.CreatedBy, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BatchRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Batch, error) {
	query := `SELECT` + batchColumns + `
		FROM batches WHERE tenant_id = $1 AND id = $2`
	b, err := scanBatch(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

func (r *BatchRepo) GetByLot(ctx context.Context, tenantID, medicineID, branchID, batchNumber string) (*entity.Batch, error) {
	query := `SELECT` + batchColumns + `
		FROM batches
		WHERE tenant_id = $1 AND medicine_id = $2 AND branch_id = $3 AND batch_number = $4`
	b, err := scanBatch(r.q.QueryRow(ctx, query, tenantID, medicineID, branchID, batchNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("get batch by lot: %w", err)
	}
	return b, nil
}

func (r *BatchRepo) Create(ctx context.Context, batch *entity.Batch) error {
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		batch.ID, batch.TenantID, batch.MedicineID, batch.BranchID, batch.BatchNumber, batch.ExpiryDate,
		batch.QuantityInStock, batch.QuantitySold, batch.QuantityOut,
		batch.PurchasePrice, batch.RetailPrice, batch.MinStockLevel, batch.StockHandlingMethod,
		batch.Version, batch.CreatedAt, batch.CreatedBy, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// Update escribe las cantidades solo si la versión coincide (CAS). Cero filas
// afectadas significa que otro escritor ganó: ErrConcurrentModification.
func (r *BatchRepo) Update(ctx context.Context, batch *entity.Batch) error {
	query := `
		UPDATE batches SET
			quantity_in_stock = $1, quantity_sold = $2, quantity_out = $3,
			version = version + 1, updated_at = now()
		WHERE tenant_id = $4 AND id = $5 AND version = $6`
	tag, err := r.q.Exec(ctx, query,
		batch.QuantityInStock, batch.QuantitySold, batch.QuantityOut,
		batch.TenantID, batch.ID, batch.Version,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}
	batch.Version++
	return nil
}

func (r *BatchRepo) ListByBranch(ctx context.Context, tenantID, branchID string, limit, offset int) ([]*entity.Batch, error) {
	query := `SELECT` + batchColumns + `
		FROM batches
		WHERE tenant_id = $1 AND branch_id = $2
		ORDER BY expiry_date, id LIMIT $3 OFFSET $4`
	return r.list(ctx, query, tenantID, branchID, limit, offset)
}

func (r *BatchRepo) ListBelowMinimum(ctx context.Context, tenantID, branchID string) ([]*entity.Batch, error) {
	// Lotes retirados (todo en cero) quedan fuera de la vista de stock bajo.
	query := `SELECT` + batchColumns + `
		FROM batches
		WHERE tenant_id = $1 AND branch_id = $2
		  AND quantity_in_stock < min_stock_level
		  AND (quantity_in_stock > 0 OR quantity_sold > 0 OR quantity_out > 0)
		ORDER BY expiry_date, id`
	return r.list(ctx, query, tenantID, branchID)
}

func (r *BatchRepo) ListExpiringBefore(ctx context.Context, tenantID string, cutoff time.Time) ([]*entity.Batch, error) {
	query := `SELECT` + batchColumns + `
		FROM batches
		WHERE tenant_id = $1 AND quantity_in_stock > 0 AND expiry_date < $2
		ORDER BY expiry_date, id`
	return r.list(ctx, query, tenantID, cutoff)
}

func (r *BatchRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var out []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
