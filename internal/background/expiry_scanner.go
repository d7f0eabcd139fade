// Package background agrupa los procesos periódicos del motor de stock.
package background

import (
	"context"
	"time"

	"github.com/jhoicas/farmacia-api/internal/application/ports"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

// TenantSource enumera los tenants con lotes registrados, para que el escáner
// recorra todos sin acoplar el puerto de lotes a la multi-tenencia global.
type TenantSource interface {
	ListTenants(ctx context.Context) ([]string, error)
}

// ExpiryScanner escanea periódicamente los lotes próximos a vencer y emite un
// evento por lote. Cada lote se alerta una sola vez por proceso.
type ExpiryScanner struct {
	batchRepo repository.BatchRepository
	tenants   TenantSource
	notifier  ports.Notifier
	log       *logger.Logger

	interval time.Duration // frecuencia de escaneo
	window   time.Duration // anticipación de la alerta

	alerted map[string]struct{}
}

// NewExpiryScanner construye el escáner. interval y window <= 0 usan una hora
// y 30 días respectivamente.
func NewExpiryScanner(
	batchRepo repository.BatchRepository,
	tenants TenantSource,
	notifier ports.Notifier,
	log *logger.Logger,
	interval, window time.Duration,
) *ExpiryScanner {
	if interval <= 0 {
		interval = time.Hour
	}
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}
	return &ExpiryScanner{
		batchRepo: batchRepo,
		tenants:   tenants,
		notifier:  notifier,
		log:       log.Component("expiry-scanner"),
		interval:  interval,
		window:    window,
		alerted:   make(map[string]struct{}),
	}
}

// Run ejecuta el ciclo de escaneo hasta que el contexto se cancele.
// Pensado para correr en su propia goroutine desde main.
func (s *ExpiryScanner) Run(ctx context.Context) {
	s.log.Info().
		Dur("interval", s.interval).
		Dur("window", s.window).
		Msg("escáner de vencimientos iniciado")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("escáner de vencimientos detenido")
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

// scan recorre los tenants y alerta los lotes que vencen dentro de la ventana.
func (s *ExpiryScanner) scan(ctx context.Context) {
	tenants, err := s.tenants.ListTenants(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("no se pudo listar tenants")
		return
	}

	cutoff := time.Now().Add(s.window)
	for _, tenantID := range tenants {
		batches, err := s.batchRepo.ListExpiringBefore(ctx, tenantID, cutoff)
		if err != nil {
			s.log.Error().Err(err).Str("tenant_id", tenantID).Msg("escaneo de vencimientos falló")
			continue
		}
		for _, b := range batches {
			if _, done := s.alerted[b.ID]; done {
				continue
			}
			s.alerted[b.ID] = struct{}{}
			s.notifier.NotifyExpiring(ctx, ports.ExpiryEvent{
				TenantID:    b.TenantID,
				BranchID:    b.BranchID,
				BatchID:     b.ID,
				MedicineID:  b.MedicineID,
				BatchNumber: b.BatchNumber,
				ExpiryDate:  b.ExpiryDate,
			})
		}
	}
}
