package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest request para aplicar una operación sobre un lote.
// kind ∈ RECEIVE | SALE | OUT | RETURN | ADJUSTMENT. quantity positivo salvo
// ADJUSTMENT (admite signo).
type RegisterMovementRequest struct {
	BatchID   string `json:"batch_id"`
	Kind      string `json:"kind"`
	Quantity  int64  `json:"quantity"`
	Reference string `json:"reference"`
}

// MovementResponse resultado de una operación aplicada.
type MovementResponse struct {
	BatchID             string `json:"batch_id"`
	BranchID            string `json:"branch_id"`
	NewQuantity         int64  `json:"new_quantity"`
	CrossedLowThreshold bool   `json:"crossed_low_threshold"`
}

// ReceiveStockRequest request de recepción de compra; crea el lote si la
// tripleta (medicamento, sucursal, número de lote) no existe.
type ReceiveStockRequest struct {
	MedicineID    string          `json:"medicine_id"`
	BranchID      string          `json:"branch_id"`
	BatchNumber   string          `json:"batch_number"`
	ExpiryDate    time.Time       `json:"expiry_date"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	RetailPrice   decimal.Decimal `json:"retail_price"`
	MinStockLevel int64           `json:"min_stock_level"`
	Reference     string          `json:"reference"`
}

// TransferRequest request de traslado entre sucursales.
type TransferRequest struct {
	BatchID      string `json:"batch_id"`
	FromBranchID string `json:"from_branch_id"`
	ToBranchID   string `json:"to_branch_id"`
	Quantity     int64  `json:"quantity"`
}

// TransferResponse traslado registrado.
type TransferResponse struct {
	ID            string    `json:"id"`
	BatchID       string    `json:"batch_id"`
	MedicineID    string    `json:"medicine_id"`
	BatchNumber   string    `json:"batch_number"`
	FromBranchID  string    `json:"from_branch_id"`
	ToBranchID    string    `json:"to_branch_id"`
	Quantity      int64     `json:"quantity"`
	TransferredAt time.Time `json:"transferred_at"`
}

// BatchDTO proyección de un lote para la API.
type BatchDTO struct {
	ID              string          `json:"id"`
	MedicineID      string          `json:"medicine_id"`
	BranchID        string          `json:"branch_id"`
	BatchNumber     string          `json:"batch_number"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	QuantityInStock int64           `json:"quantity_in_stock"`
	QuantitySold    int64           `json:"quantity_sold"`
	QuantityOut     int64           `json:"quantity_out"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	RetailPrice     decimal.Decimal `json:"retail_price"`
	MinStockLevel   int64           `json:"min_stock_level"`
	IsExpired       bool            `json:"is_expired"`
}

// LedgerEntryDTO asiento del libro de stock para la API. La cantidad conserva
// el signo del asiento (negativa en salidas).
type LedgerEntryDTO struct {
	ID         string          `json:"id"`
	BatchID    string          `json:"batch_id"`
	MedicineID string          `json:"medicine_id"`
	BranchID   string          `json:"branch_id"`
	Kind       string          `json:"kind"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Total      decimal.Decimal `json:"total"`
	Reference  string          `json:"reference,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ImportOutcomeDTO resultado por fila de una importación masiva.
type ImportOutcomeDTO struct {
	Line    int    `json:"line"`
	BatchID string `json:"batch_id,omitempty"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}
