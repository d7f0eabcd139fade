package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesTotalsResult agregado crudo de ventas de un período (asientos SALE
// netos de RETURN).
type SalesTotalsResult struct {
	UnitsSold   int64
	SaleCount   int64
	GrossAmount decimal.Decimal // suma de totales de venta
	CostAmount  decimal.Decimal // costo de lo vendido a precio de compra
}

// MedicinePerformanceResult desempeño acumulado de un medicamento.
type MedicinePerformanceResult struct {
	MedicineID  string
	UnitsSold   int64
	GrossAmount decimal.Decimal
	GrossProfit decimal.Decimal
}

// ReportingRepository define el puerto de consultas de solo lectura para el
// feed de conciliación/reportes. Ninguna operación muta estado.
type ReportingRepository interface {
	// GetSalesTotals agrega los asientos de venta del rango [from, to).
	GetSalesTotals(ctx context.Context, tenantID, branchID string, from, to time.Time) (SalesTotalsResult, error)
	GetMedicinePerformance(ctx context.Context, tenantID, medicineID string) (MedicinePerformanceResult, error)
}
