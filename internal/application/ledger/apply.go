package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/farmacia-api/internal/application/ports"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	domledger "github.com/jhoicas/farmacia-api/internal/domain/ledger"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// maxApplyRetries intentos ante conflicto de versión antes de rendirse con
// ErrConcurrentModification. Los rechazos de dominio nunca se reintentan.
const maxApplyRetries = 3

// ApplyStockUseCase aplica operaciones del libro (RECEIVE, SALE, OUT, RETURN,
// ADJUSTMENT) sobre un lote, serializadas por lote mediante CAS por versión,
// dentro de una transacción (TxRunner). Cada aplicación exitosa deja un asiento
// en el libro e invalida la vista de stock bajo de la sucursal.
type ApplyStockUseCase struct {
	txRunner TxRunner
	cache    BranchInvalidator
	notifier ports.Notifier
}

// NewApplyStockUseCase construye el caso de uso. cache y notifier pueden ser nil.
func NewApplyStockUseCase(txRunner TxRunner, cache BranchInvalidator, notifier ports.Notifier) *ApplyStockUseCase {
	return &ApplyStockUseCase{txRunner: txRunner, cache: cache, notifier: notifier}
}

// ApplyInput entrada para aplicar una operación sobre un lote existente.
// Quantity es positivo salvo para ADJUSTMENT, que admite signo.
type ApplyInput struct {
	TenantID  string
	UserID    string
	BatchID   string
	Kind      string
	Quantity  int64
	Reference string
}

// ApplyResult resultado visible para el caller (ventas, compras, alertas).
type ApplyResult struct {
	BatchID             string
	BranchID            string
	NewQuantity         int64
	CrossedLowThreshold bool
}

// Apply ejecuta la operación de forma atómica. El stock resultante nunca es
// negativo: si el delta no alcanza retorna ErrInsufficientStock sin tocar el
// lote. Reintenta ante conflicto de versión hasta maxApplyRetries.
func (uc *ApplyStockUseCase) Apply(ctx context.Context, input ApplyInput) (ApplyResult, error) {
	if input.TenantID == "" || input.BatchID == "" {
		return ApplyResult{}, domain.ErrInvalidInput
	}

	var res ApplyResult
	var batch *entity.Batch
	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		entryRepo repository.LedgerEntryRepository,
		_ repository.StockTransferRepository,
	) error {
		r, b, err := applyToBatch(ctx, batchRepo, entryRepo, applyParams{
			tenantID:  input.TenantID,
			userID:    input.UserID,
			batchID:   input.BatchID,
			kind:      input.Kind,
			quantity:  input.Quantity,
			reference: input.Reference,
		})
		if err != nil {
			return err
		}
		batch = b
		res = ApplyResult{
			BatchID:             b.ID,
			BranchID:            b.BranchID,
			NewQuantity:         r.NewQuantity,
			CrossedLowThreshold: r.CrossedLowThreshold,
		}
		return nil
	})
	if err != nil {
		return ApplyResult{}, err
	}

	uc.afterMutation(ctx, batch, res.CrossedLowThreshold)
	return res, nil
}

// ReceiveInput entrada para una recepción de compra: crea el lote si la tripleta
// (medicamento, sucursal, número de lote) no se ha visto antes.
type ReceiveInput struct {
	TenantID            string
	UserID              string
	MedicineID          string
	BranchID            string
	BatchNumber         string
	ExpiryDate          time.Time
	Quantity            int64
	PurchasePrice       decimal.Decimal
	RetailPrice         decimal.Decimal
	MinStockLevel       int64
	StockHandlingMethod string
	Reference           string
}

// Receive registra la entrada de una línea de compra. Resuelve o crea el lote
// y aplica RECEIVE por Quantity en la misma transacción.
func (uc *ApplyStockUseCase) Receive(ctx context.Context, input ReceiveInput) (ApplyResult, error) {
	if input.TenantID == "" || input.MedicineID == "" || input.BranchID == "" || input.BatchNumber == "" {
		return ApplyResult{}, domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return ApplyResult{}, domain.ErrInvalidInput
	}

	var res ApplyResult
	var batch *entity.Batch
	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		entryRepo repository.LedgerEntryRepository,
		_ repository.StockTransferRepository,
	) error {
		b, err := batchRepo.GetByLot(ctx, input.TenantID, input.MedicineID, input.BranchID, input.BatchNumber)
		if errors.Is(err, domain.ErrBatchNotFound) {
			b = newBatchFromReceive(input)
			if err := batchRepo.Create(ctx, b); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		r, b, err := applyToBatch(ctx, batchRepo, entryRepo, applyParams{
			tenantID:  input.TenantID,
			userID:    input.UserID,
			batchID:   b.ID,
			kind:      entity.KindReceive,
			quantity:  input.Quantity,
			reference: input.Reference,
		})
		if err != nil {
			return err
		}
		batch = b
		res = ApplyResult{
			BatchID:             b.ID,
			BranchID:            b.BranchID,
			NewQuantity:         r.NewQuantity,
			CrossedLowThreshold: r.CrossedLowThreshold,
		}
		return nil
	})
	if err != nil {
		return ApplyResult{}, err
	}

	uc.afterMutation(ctx, batch, res.CrossedLowThreshold)
	return res, nil
}

// afterMutation invalida la cache de la sucursal y emite el evento de cruce
// de umbral. Se ejecuta solo tras commit exitoso.
func (uc *ApplyStockUseCase) afterMutation(ctx context.Context, batch *entity.Batch, crossed bool) {
	if uc.cache != nil {
		uc.cache.Invalidate(batch.TenantID, batch.BranchID)
	}
	if crossed && uc.notifier != nil {
		uc.notifier.NotifyLowStock(ctx, ports.ThresholdEvent{
			TenantID:      batch.TenantID,
			BranchID:      batch.BranchID,
			BatchID:       batch.ID,
			MedicineID:    batch.MedicineID,
			BatchNumber:   batch.BatchNumber,
			Quantity:      batch.QuantityInStock,
			MinStockLevel: batch.MinStockLevel,
		})
	}
}

// applyParams parámetros internos de una aplicación sobre un lote ya existente.
type applyParams struct {
	tenantID  string
	userID    string
	batchID   string
	kind      string
	quantity  int64
	reference string
}

// applyToBatch lee el lote, aplica la semántica de dominio y persiste con CAS
// por versión. Ante ErrConcurrentModification relee y reintenta; ante rechazo
// de dominio o cancelación del contexto aborta de inmediato. El asiento del
// libro se escribe después de la actualización condicional exitosa, dentro de
// la misma transacción.
func applyToBatch(
	ctx context.Context,
	batchRepo repository.BatchRepository,
	entryRepo repository.LedgerEntryRepository,
	p applyParams,
) (domledger.Result, *entity.Batch, error) {
	for attempt := 0; attempt < maxApplyRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return domledger.Result{}, nil, err
		}

		batch, err := batchRepo.GetByID(ctx, p.tenantID, p.batchID)
		if err != nil {
			return domledger.Result{}, nil, err
		}

		result, err := domledger.Apply(batch, p.kind, p.quantity)
		if err != nil {
			return domledger.Result{}, nil, err
		}

		err = batchRepo.Update(ctx, batch)
		if errors.Is(err, domain.ErrConcurrentModification) {
			continue
		}
		if err != nil {
			return domledger.Result{}, nil, err
		}

		unitPrice := unitPriceFor(batch, p.kind)
		entry := &entity.LedgerEntry{
			ID:         uuid.New().String(),
			TenantID:   p.tenantID,
			BatchID:    batch.ID,
			MedicineID: batch.MedicineID,
			BranchID:   batch.BranchID,
			Kind:       p.kind,
			Quantity:   result.StockDelta,
			UnitPrice:  unitPrice,
			Total:      unitPrice.Mul(decimal.NewFromInt(result.StockDelta)),
			Reference:  p.reference,
			OccurredAt: time.Now(),
			CreatedBy:  p.userID,
		}
		if err := entryRepo.Create(ctx, entry); err != nil {
			return domledger.Result{}, nil, err
		}
		return result, batch, nil
	}
	return domledger.Result{}, nil, domain.ErrConcurrentModification
}

// unitPriceFor elige el precio del asiento: venta/devolución al precio de
// venta, el resto al precio de compra.
func unitPriceFor(b *entity.Batch, kind string) decimal.Decimal {
	if kind == entity.KindSale || kind == entity.KindReturn {
		return b.RetailPrice
	}
	return b.PurchasePrice
}

// newBatchFromReceive arma el lote nuevo de una primera recepción.
func newBatchFromReceive(input ReceiveInput) *entity.Batch {
	method := input.StockHandlingMethod
	if method == "" {
		method = entity.StockHandlingFEFO
	}
	minLevel := input.MinStockLevel
	if minLevel <= 0 {
		minLevel = 10
	}
	now := time.Now()
	return &entity.Batch{
		ID:                  uuid.New().String(),
		TenantID:            input.TenantID,
		MedicineID:          input.MedicineID,
		BranchID:            input.BranchID,
		BatchNumber:         input.BatchNumber,
		ExpiryDate:          input.ExpiryDate,
		PurchasePrice:       input.PurchasePrice,
		RetailPrice:         input.RetailPrice,
		MinStockLevel:       minLevel,
		StockHandlingMethod: method,
		CreatedAt:           now,
		CreatedBy:           input.UserID,
		UpdatedAt:           now,
	}
}
