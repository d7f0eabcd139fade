package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de manejo de stock para agotar lotes.
const (
	StockHandlingFEFO = "FEFO" // primero el que expira primero
	StockHandlingFIFO = "FIFO" // primero el que entró primero
)

// Batch representa un lote de un medicamento en una sucursal.
// Identidad de negocio: (MedicineID, BranchID, BatchNumber), única por tenant.
// QuantityInStock nunca es negativo; QuantitySold y QuantityOut son acumulados.
type Batch struct {
	ID                  string
	TenantID            string
	MedicineID          string
	BranchID            string
	BatchNumber         string
	ExpiryDate          time.Time
	QuantityInStock     int64
	QuantitySold        int64
	QuantityOut         int64
	PurchasePrice       decimal.Decimal
	RetailPrice         decimal.Decimal
	MinStockLevel       int64
	StockHandlingMethod string
	Version             int64 // control de concurrencia optimista
	CreatedAt           time.Time
	CreatedBy           string
	UpdatedAt           time.Time
}

// IsExpired indica si el lote está vencido respecto de now.
func (b *Batch) IsExpired(now time.Time) bool {
	return b.ExpiryDate.Before(now)
}

// IsBelowMinimum indica si el stock actual está por debajo del mínimo configurado.
func (b *Batch) IsBelowMinimum() bool {
	return b.QuantityInStock < b.MinStockLevel
}

// IsRetired indica si el lote está lógicamente retirado: sin stock y sin
// movimiento acumulado pendiente de conciliar. Los lotes retirados se excluyen
// de la vista de stock bajo pero nunca se borran físicamente.
func (b *Batch) IsRetired() bool {
	return b.QuantityInStock == 0 && b.QuantitySold == 0 && b.QuantityOut == 0
}

// CloneForBranch crea el lote destino de un traslado: copia los atributos
// estáticos (vencimiento, precios, mínimo, método de manejo) y arranca en cero.
func (b *Batch) CloneForBranch(toBranchID string) *Batch {
	return &Batch{
		TenantID:            b.TenantID,
		MedicineID:          b.MedicineID,
		BranchID:            toBranchID,
		BatchNumber:         b.BatchNumber,
		ExpiryDate:          b.ExpiryDate,
		QuantityInStock:     0,
		PurchasePrice:       b.PurchasePrice,
		RetailPrice:         b.RetailPrice,
		MinStockLevel:       b.MinStockLevel,
		StockHandlingMethod: b.StockHandlingMethod,
	}
}
