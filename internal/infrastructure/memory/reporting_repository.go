package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.ReportingRepository = (*ReportingRepo)(nil)

// ReportingRepo agregados de solo lectura calculados sobre los repositorios
// en memoria. El adaptador de PostgreSQL resuelve lo mismo con SQL.
type ReportingRepo struct {
	entryRepo *LedgerEntryRepo
	batchRepo *BatchRepo
}

// NewReportingRepository construye el adaptador.
func NewReportingRepository(entryRepo *LedgerEntryRepo, batchRepo *BatchRepo) *ReportingRepo {
	return &ReportingRepo{entryRepo: entryRepo, batchRepo: batchRepo}
}

// GetSalesTotals agrega asientos SALE netos de RETURN en [from, to).
// Los asientos SALE llevan cantidad negativa; se normaliza aquí.
func (r *ReportingRepo) GetSalesTotals(ctx context.Context, tenantID, branchID string, from, to time.Time) (repository.SalesTotalsResult, error) {
	r.entryRepo.mu.RLock()
	defer r.entryRepo.mu.RUnlock()

	res := repository.SalesTotalsResult{GrossAmount: decimal.Zero, CostAmount: decimal.Zero}
	for _, e := range r.entryRepo.entries {
		if e.TenantID != tenantID || e.BranchID != branchID {
			continue
		}
		if e.OccurredAt.Before(from) || !e.OccurredAt.Before(to) {
			continue
		}
		switch e.Kind {
		case entity.KindSale:
			units := -e.Quantity
			res.UnitsSold += units
			res.SaleCount++
			res.GrossAmount = res.GrossAmount.Add(e.Total.Neg())
			res.CostAmount = res.CostAmount.Add(r.costOf(tenantID, e.BatchID, units))
		case entity.KindReturn:
			res.UnitsSold -= e.Quantity
			res.GrossAmount = res.GrossAmount.Sub(e.Total)
			res.CostAmount = res.CostAmount.Sub(r.costOf(tenantID, e.BatchID, e.Quantity))
		}
	}
	return res, nil
}

// GetMedicinePerformance acumulados de venta de un medicamento en todo el tenant.
func (r *ReportingRepo) GetMedicinePerformance(ctx context.Context, tenantID, medicineID string) (repository.MedicinePerformanceResult, error) {
	r.entryRepo.mu.RLock()
	defer r.entryRepo.mu.RUnlock()

	res := repository.MedicinePerformanceResult{
		MedicineID:  medicineID,
		GrossAmount: decimal.Zero,
		GrossProfit: decimal.Zero,
	}
	for _, e := range r.entryRepo.entries {
		if e.TenantID != tenantID || e.MedicineID != medicineID {
			continue
		}
		switch e.Kind {
		case entity.KindSale:
			units := -e.Quantity
			gross := e.Total.Neg()
			res.UnitsSold += units
			res.GrossAmount = res.GrossAmount.Add(gross)
			res.GrossProfit = res.GrossProfit.Add(gross.Sub(r.costOf(tenantID, e.BatchID, units)))
		case entity.KindReturn:
			res.UnitsSold -= e.Quantity
			res.GrossAmount = res.GrossAmount.Sub(e.Total)
			res.GrossProfit = res.GrossProfit.Sub(e.Total.Sub(r.costOf(tenantID, e.BatchID, e.Quantity)))
		}
	}
	return res, nil
}

// costOf costo a precio de compra de `units` unidades del lote.
func (r *ReportingRepo) costOf(tenantID, batchID string, units int64) decimal.Decimal {
	r.batchRepo.mu.RLock()
	defer r.batchRepo.mu.RUnlock()
	b, ok := r.batchRepo.batches[batchID]
	if !ok || b.TenantID != tenantID {
		return decimal.Zero
	}
	return b.PurchasePrice.Mul(decimal.NewFromInt(units))
}
