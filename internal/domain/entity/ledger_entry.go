package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de operación sobre el libro de stock.
const (
	KindReceive    = "RECEIVE"    // entrada por compra o traslado
	KindSale       = "SALE"       // venta
	KindOut        = "OUT"        // salida no-venta (merma, traslado saliente)
	KindReturn     = "RETURN"     // devolución de venta
	KindAdjustment = "ADJUSTMENT" // ajuste manual (con signo)
)

// LedgerEntry es el asiento del libro de stock: un registro por cada Apply
// exitoso. La cantidad lleva el signo efectivo sobre QuantityInStock
// (negativo para SALE/OUT). El feed de reportes lee estos asientos.
type LedgerEntry struct {
	ID         string
	TenantID   string
	BatchID    string
	MedicineID string
	BranchID   string
	Kind       string
	Quantity   int64 // con signo sobre el stock
	UnitPrice  decimal.Decimal
	Total      decimal.Decimal
	Reference  string // venta, orden de compra, nota de ajuste, traslado
	OccurredAt time.Time
	CreatedBy  string
}
