package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// DefaultLowStockTTL cota de frescura de la vista de stock bajo.
const DefaultLowStockTTL = 5 * time.Minute

// lowStockSnapshot vista materializada de una sucursal con su marca de tiempo.
type lowStockSnapshot struct {
	batches []*entity.Batch
	takenAt time.Time
}

// LowStockCache vista derivada y acotada en el tiempo de los lotes bajo umbral
// por sucursal. No es autoritativa: siempre se puede recalcular re-escaneando
// los lotes; un cache frío degrada a un recálculo correcto, nunca a datos
// incorrectos. La invalidación toma efecto antes de la siguiente lectura:
// cada Invalidate avanza la generación de la sucursal y un recálculo solo
// guarda su snapshot si la generación no cambió mientras escaneaba.
type LowStockCache struct {
	mu          sync.Mutex
	repo        repository.BatchRepository
	ttl         time.Duration
	snapshots   map[string]lowStockSnapshot
	generations map[string]uint64
	now         func() time.Time
}

// NewLowStockCache construye la cache. ttl <= 0 usa DefaultLowStockTTL.
func NewLowStockCache(repo repository.BatchRepository, ttl time.Duration) *LowStockCache {
	if ttl <= 0 {
		ttl = DefaultLowStockTTL
	}
	return &LowStockCache{
		repo:        repo,
		ttl:         ttl,
		snapshots:   make(map[string]lowStockSnapshot),
		generations: make(map[string]uint64),
		now:         time.Now,
	}
}

// GetLowStock devuelve los lotes bajo umbral de la sucursal. Sirve el snapshot
// si existe y es más joven que la cota de frescura; si no, recalcula escaneando
// los lotes no retirados. El resultado se guarda solo si ninguna invalidación
// llegó durante el escaneo, para que un recálculo lento no reviva datos viejos.
func (c *LowStockCache) GetLowStock(ctx context.Context, tenantID, branchID string) ([]*entity.Batch, error) {
	key := tenantID + "|" + branchID

	c.mu.Lock()
	if snap, ok := c.snapshots[key]; ok && c.now().Sub(snap.takenAt) < c.ttl {
		out := make([]*entity.Batch, len(snap.batches))
		copy(out, snap.batches)
		c.mu.Unlock()
		return out, nil
	}
	generation := c.generations[key]
	c.mu.Unlock()

	batches, err := c.repo.ListBelowMinimum(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generations[key] == generation {
		c.snapshots[key] = lowStockSnapshot{batches: batches, takenAt: c.now()}
	}
	c.mu.Unlock()

	out := make([]*entity.Batch, len(batches))
	copy(out, batches)
	return out, nil
}

// Invalidate descarta el snapshot de la sucursal y avanza su generación, de
// modo que un escaneo en vuelo no guarde su resultado pre-mutación. La llaman
// el libro y el coordinador de traslados tras cada mutación exitosa que toca
// la sucursal.
func (c *LowStockCache) Invalidate(tenantID, branchID string) {
	key := tenantID + "|" + branchID
	c.mu.Lock()
	delete(c.snapshots, key)
	c.generations[key]++
	c.mu.Unlock()
}

var _ BranchInvalidator = (*LowStockCache)(nil)
