package entity

import "time"

// StockTransfer registra un traslado de stock entre sucursales.
// Se crea exactamente un registro por traslado exitoso; nunca por intentos fallidos.
type StockTransfer struct {
	ID            string
	TenantID      string
	BatchID       string // lote origen
	MedicineID    string
	BatchNumber   string
	FromBranchID  string
	ToBranchID    string
	Quantity      int64 // siempre > 0
	TransferredAt time.Time
	TransferredBy string // UserID
}
