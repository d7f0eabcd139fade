// Package notify implementa el puerto de notificaciones. La implementación
// por defecto emite los eventos como logs estructurados; un canal real
// (SMS, email, push) se conecta detrás del mismo puerto.
package notify

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/application/ports"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier emite los eventos de alerta por el logger estructurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Component("alerts")}
}

// NotifyLowStock registra el cruce de umbral de stock mínimo.
func (n *LogNotifier) NotifyLowStock(_ context.Context, e ports.ThresholdEvent) {
	n.log.Warn().
		Str("tenant_id", e.TenantID).
		Str("branch_id", e.BranchID).
		Str("batch_id", e.BatchID).
		Str("medicine_id", e.MedicineID).
		Str("batch_number", e.BatchNumber).
		Int64("quantity", e.Quantity).
		Int64("min_stock_level", e.MinStockLevel).
		Msg("lote cruzó el umbral de stock mínimo")
}

// NotifyExpiring registra el lote próximo a vencer.
func (n *LogNotifier) NotifyExpiring(_ context.Context, e ports.ExpiryEvent) {
	n.log.Warn().
		Str("tenant_id", e.TenantID).
		Str("branch_id", e.BranchID).
		Str("batch_id", e.BatchID).
		Str("medicine_id", e.MedicineID).
		Str("batch_number", e.BatchNumber).
		Time("expiry_date", e.ExpiryDate).
		Msg("lote próximo a vencer")
}
