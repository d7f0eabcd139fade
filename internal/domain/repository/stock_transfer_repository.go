package repository

import (
	"context"
	"time"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// StockTransferRepository define el puerto de persistencia de traslados.
// La tabla es append-only: los traslados nunca se modifican ni borran.
type StockTransferRepository interface {
	Create(ctx context.Context, transfer *entity.StockTransfer) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.StockTransfer, error)
	ListByBranch(ctx context.Context, tenantID, branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransfer, error)
}
