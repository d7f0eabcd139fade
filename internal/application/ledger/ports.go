package ledger

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		entryRepo repository.LedgerEntryRepository,
		transferRepo repository.StockTransferRepository,
	) error) error
}

// BranchInvalidator invalida la vista cacheada de stock bajo de una sucursal.
// Lo implementa LowStockCache; se invoca tras toda mutación exitosa.
type BranchInvalidator interface {
	Invalidate(tenantID, branchID string)
}
