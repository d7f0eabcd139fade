package reports

import (
	"context"
	"time"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// Rangos de los buckets del reporte de antigüedad.
const (
	agingNearWindow = 30 * 24 * time.Hour
	agingMidWindow  = 90 * 24 * time.Hour
	agingPageSize   = 500
)

// ReportingUseCase proyecciones de solo lectura sobre el estado comprometido
// del libro: antigüedad, ventas diarias y estado de resultados. Sin capacidad
// de mutación; consistencia de snapshot es suficiente para lecturas analíticas.
type ReportingUseCase struct {
	batchRepo     repository.BatchRepository
	reportingRepo repository.ReportingRepository
}

// NewReportingUseCase construye el caso de uso.
func NewReportingUseCase(batchRepo repository.BatchRepository, reportingRepo repository.ReportingRepository) *ReportingUseCase {
	return &ReportingUseCase{batchRepo: batchRepo, reportingRepo: reportingRepo}
}

// StockAging clasifica los lotes de la sucursal en buckets de vencimiento:
// vencidos, a menos de 30 días, a menos de 90 días y frescos.
func (uc *ReportingUseCase) StockAging(ctx context.Context, tenantID, branchID string) (dto.AgingReportDTO, error) {
	now := time.Now()
	buckets := map[string]*dto.AgingBucketDTO{
		"expired":   {Bucket: "expired"},
		"under_30d": {Bucket: "under_30d"},
		"under_90d": {Bucket: "under_90d"},
		"fresh":     {Bucket: "fresh"},
	}

	for offset := 0; ; offset += agingPageSize {
		batches, err := uc.batchRepo.ListByBranch(ctx, tenantID, branchID, agingPageSize, offset)
		if err != nil {
			return dto.AgingReportDTO{}, err
		}
		for _, b := range batches {
			var key string
			switch {
			case b.IsExpired(now):
				key = "expired"
			case b.ExpiryDate.Before(now.Add(agingNearWindow)):
				key = "under_30d"
			case b.ExpiryDate.Before(now.Add(agingMidWindow)):
				key = "under_90d"
			default:
				key = "fresh"
			}
			buckets[key].BatchCount++
			buckets[key].Units += b.QuantityInStock
		}
		if len(batches) < agingPageSize {
			break
		}
	}

	return dto.AgingReportDTO{
		BranchID: branchID,
		Buckets: []dto.AgingBucketDTO{
			*buckets["expired"], *buckets["under_30d"], *buckets["under_90d"], *buckets["fresh"],
		},
	}, nil
}

// DailySales agrega las ventas del día calendario indicado (UTC).
func (uc *ReportingUseCase) DailySales(ctx context.Context, tenantID, branchID string, date time.Time) (dto.DailySalesDTO, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	totals, err := uc.reportingRepo.GetSalesTotals(ctx, tenantID, branchID, day, day.Add(24*time.Hour))
	if err != nil {
		return dto.DailySalesDTO{}, err
	}
	return dto.DailySalesDTO{
		BranchID:  branchID,
		Date:      day.Format("2006-01-02"),
		UnitsSold: totals.UnitsSold,
		SaleCount: totals.SaleCount,
		Revenue:   totals.GrossAmount,
	}, nil
}

// ProfitLoss calcula ingresos, costo de lo vendido y utilidad del rango [from, to).
func (uc *ReportingUseCase) ProfitLoss(ctx context.Context, tenantID, branchID string, from, to time.Time) (dto.ProfitLossDTO, error) {
	totals, err := uc.reportingRepo.GetSalesTotals(ctx, tenantID, branchID, from, to)
	if err != nil {
		return dto.ProfitLossDTO{}, err
	}
	return dto.ProfitLossDTO{
		BranchID: branchID,
		Revenue:  totals.GrossAmount,
		Cost:     totals.CostAmount,
		Profit:   totals.GrossAmount.Sub(totals.CostAmount),
	}, nil
}

// MedicinePerformance desempeño acumulado de un medicamento en todo el tenant.
func (uc *ReportingUseCase) MedicinePerformance(ctx context.Context, tenantID, medicineID string) (dto.MedicinePerformanceDTO, error) {
	perf, err := uc.reportingRepo.GetMedicinePerformance(ctx, tenantID, medicineID)
	if err != nil {
		return dto.MedicinePerformanceDTO{}, err
	}
	return dto.MedicinePerformanceDTO{
		MedicineID:  medicineID,
		UnitsSold:   perf.UnitsSold,
		GrossAmount: perf.GrossAmount,
		GrossProfit: perf.GrossProfit,
	}, nil
}
