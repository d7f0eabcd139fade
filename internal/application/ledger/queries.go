package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// BatchQueryUseCase lecturas de lotes, asientos y traslados para la API.
// Solo consulta estado comprometido; nunca muta.
type BatchQueryUseCase struct {
	batchRepo    repository.BatchRepository
	entryRepo    repository.LedgerEntryRepository
	transferRepo repository.StockTransferRepository
}

// NewBatchQueryUseCase construye el caso de uso.
func NewBatchQueryUseCase(
	batchRepo repository.BatchRepository,
	entryRepo repository.LedgerEntryRepository,
	transferRepo repository.StockTransferRepository,
) *BatchQueryUseCase {
	return &BatchQueryUseCase{batchRepo: batchRepo, entryRepo: entryRepo, transferRepo: transferRepo}
}

// GetBatch devuelve el lote por ID. domain.ErrBatchNotFound si no existe.
func (uc *BatchQueryUseCase) GetBatch(ctx context.Context, tenantID, batchID string) (*entity.Batch, error) {
	return uc.batchRepo.GetByID(ctx, tenantID, batchID)
}

// ListBatches lista paginada de los lotes de una sucursal.
func (uc *BatchQueryUseCase) ListBatches(ctx context.Context, tenantID, branchID string, limit, offset int) ([]*entity.Batch, error) {
	return uc.batchRepo.ListByBranch(ctx, tenantID, branchID, limit, offset)
}

// ListLedger asientos del libro de un lote, en orden de ocurrencia.
func (uc *BatchQueryUseCase) ListLedger(ctx context.Context, tenantID, batchID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	return uc.entryRepo.ListByBatch(ctx, tenantID, batchID, limit, offset)
}

// ListTransfers traslados que tocan la sucursal (origen o destino), con ventana
// de tiempo opcional.
func (uc *BatchQueryUseCase) ListTransfers(ctx context.Context, tenantID, branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransfer, error) {
	return uc.transferRepo.ListByBranch(ctx, tenantID, branchID, from, to, limit, offset)
}
