package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.ReportingRepository = (*ReportingRepo)(nil)

// ReportingRepo consultas agregadas de solo lectura para el feed de reportes.
// Siempre sobre el pool: las lecturas analíticas no participan de transacciones
// del motor (consistencia de snapshot es suficiente).
type ReportingRepo struct {
	pool *pgxpool.Pool
}

// NewReportingRepository construye el adaptador de reportes.
func NewReportingRepository(pool *pgxpool.Pool) *ReportingRepo {
	return &ReportingRepo{pool: pool}
}

// GetSalesTotals agrega asientos SALE netos de RETURN en [from, to).
// Los asientos SALE llevan cantidad y total negativos; aquí se normalizan.
// COALESCE devuelve cero si el período no tiene ventas.
func (r *ReportingRepo) GetSalesTotals(
	ctx context.Context,
	tenantID, branchID string,
	from, to time.Time,
) (repository.SalesTotalsResult, error) {
	const query = `
	SELECT
	    COALESCE(SUM(CASE WHEN e.kind = 'SALE'   THEN -e.quantity
	                      WHEN e.kind = 'RETURN' THEN -e.quantity END), 0)    AS units_sold,
	    COALESCE(COUNT(*) FILTER (WHERE e.kind = 'SALE'), 0)                  AS sale_count,
	    COALESCE(SUM(CASE WHEN e.kind = 'SALE'   THEN -e.total
	                      WHEN e.kind = 'RETURN' THEN -e.total END), 0)       AS gross_amount,
	    COALESCE(SUM(CASE WHEN e.kind = 'SALE'   THEN -e.quantity * b.purchase_price
	                      WHEN e.kind = 'RETURN' THEN -e.quantity * b.purchase_price END), 0) AS cost_amount
	FROM ledger_entries e
	JOIN batches b ON b.id = e.batch_id
	WHERE e.tenant_id = $1
	  AND e.branch_id = $2
	  AND e.kind IN ('SALE', 'RETURN')
	  AND e.occurred_at >= $3 AND e.occurred_at < $4`

	var res repository.SalesTotalsResult
	err := r.pool.QueryRow(ctx, query, tenantID, branchID, from, to).Scan(
		&res.UnitsSold, &res.SaleCount, &res.GrossAmount, &res.CostAmount,
	)
	if err != nil {
		return repository.SalesTotalsResult{}, fmt.Errorf("reporting.GetSalesTotals: %w", err)
	}
	return res, nil
}

// GetMedicinePerformance acumulados de venta de un medicamento en el tenant.
func (r *ReportingRepo) GetMedicinePerformance(
	ctx context.Context,
	tenantID, medicineID string,
) (repository.MedicinePerformanceResult, error) {
	const query = `
	SELECT
	    COALESCE(SUM(CASE WHEN e.kind = 'SALE'   THEN -e.quantity
	                      WHEN e.kind = 'RETURN' THEN -e.quantity END), 0) AS units_sold,
	    COALESCE(SUM(CASE WHEN e.kind = 'SALE'   THEN -e.total
	                      WHEN e.kind = 'RETURN' THEN -e.total END), 0)    AS gross_amount,
	    COALESCE(SUM(CASE WHEN e.kind = 'SALE'   THEN -e.total + e.quantity * b.purchase_price
	                      WHEN e.kind = 'RETURN' THEN -e.total + e.quantity * b.purchase_price END), 0) AS gross_profit
	FROM ledger_entries e
	JOIN batches b ON b.id = e.batch_id
	WHERE e.tenant_id = $1
	  AND e.medicine_id = $2
	  AND e.kind IN ('SALE', 'RETURN')`

	res := repository.MedicinePerformanceResult{
		MedicineID:  medicineID,
		GrossAmount: decimal.Zero,
		GrossProfit: decimal.Zero,
	}
	err := r.pool.QueryRow(ctx, query, tenantID, medicineID).Scan(
		&res.UnitsSold, &res.GrossAmount, &res.GrossProfit,
	)
	if err != nil {
		return repository.MedicinePerformanceResult{}, fmt.Errorf("reporting.GetMedicinePerformance: %w", err)
	}
	return res, nil
}
