package dto

import "github.com/shopspring/decimal"

// AgingBucketDTO un rango de antigüedad de vencimiento con sus totales.
type AgingBucketDTO struct {
	Bucket     string `json:"bucket"` // expired | under_30d | under_90d | fresh
	BatchCount int    `json:"batch_count"`
	Units      int64  `json:"units"`
}

// AgingReportDTO reporte de antigüedad de stock de una sucursal.
type AgingReportDTO struct {
	BranchID string           `json:"branch_id"`
	Buckets  []AgingBucketDTO `json:"buckets"`
}

// DailySalesDTO resumen de ventas de un día.
type DailySalesDTO struct {
	BranchID  string          `json:"branch_id"`
	Date      string          `json:"date"`
	UnitsSold int64           `json:"units_sold"`
	SaleCount int64           `json:"sale_count"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// ProfitLossDTO estado de resultados simple de un rango de fechas.
type ProfitLossDTO struct {
	BranchID string          `json:"branch_id"`
	Revenue  decimal.Decimal `json:"revenue"`
	Cost     decimal.Decimal `json:"cost"`
	Profit   decimal.Decimal `json:"profit"`
}

// MedicinePerformanceDTO desempeño acumulado de un medicamento.
type MedicinePerformanceDTO struct {
	MedicineID  string          `json:"medicine_id"`
	UnitsSold   int64           `json:"units_sold"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
}
