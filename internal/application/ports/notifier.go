package ports

import (
	"context"
	"time"
)

// ThresholdEvent cruce de umbral de stock mínimo producido por una mutación.
type ThresholdEvent struct {
	TenantID      string
	BranchID      string
	BatchID       string
	MedicineID    string
	BatchNumber   string
	Quantity      int64
	MinStockLevel int64
}

// ExpiryEvent lote próximo a vencer detectado por el escaneo periódico.
type ExpiryEvent struct {
	TenantID    string
	BranchID    string
	BatchID     string
	MedicineID  string
	BatchNumber string
	ExpiryDate  time.Time
}

// Notifier puerto hacia el sistema de notificaciones (SMS/email/push externos).
// El motor de stock solo emite eventos; la entrega no es responsabilidad suya.
type Notifier interface {
	NotifyLowStock(ctx context.Context, event ThresholdEvent)
	NotifyExpiring(ctx context.Context, event ExpiryEvent)
}
