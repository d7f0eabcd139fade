package memory

import (
	"context"

	"github.com/jhoicas/farmacia-api/internal/application/ledger"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner pasa los repositorios en memoria al callback sin transacción real.
// No hay rollback: la corrección ante fallos parciales la garantizan el CAS
// por versión y la compensación del coordinador de traslados, que es
// exactamente el contrato que esos componentes deben cumplir.
type TxRunner struct {
	batchRepo    *BatchRepo
	entryRepo    *LedgerEntryRepo
	transferRepo *StockTransferRepo
}

// NewTxRunner construye el runner sobre los repositorios compartidos.
func NewTxRunner(batchRepo *BatchRepo, entryRepo *LedgerEntryRepo, transferRepo *StockTransferRepo) *TxRunner {
	return &TxRunner{batchRepo: batchRepo, entryRepo: entryRepo, transferRepo: transferRepo}
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	entryRepo repository.LedgerEntryRepository,
	transferRepo repository.StockTransferRepository,
) error) error {
	return fn(r.batchRepo, r.entryRepo, r.transferRepo)
}
