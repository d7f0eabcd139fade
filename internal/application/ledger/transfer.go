package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/farmacia-api/internal/application/ports"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// TransferStockUseCase orquesta el traslado de stock entre sucursales como una
// unidad lógica: OUT en el lote origen más RECEIVE en el lote destino, con
// compensación del origen si el destino falla. El lote destino se resuelve por
// (medicamento, sucursal destino, número de lote) para no mezclar lotes con
// vencimientos distintos; si no existe se crea copiando los atributos estáticos
// del origen con stock cero.
type TransferStockUseCase struct {
	txRunner TxRunner
	cache    BranchInvalidator
	notifier ports.Notifier
}

// NewTransferStockUseCase construye el caso de uso. cache y notifier pueden ser nil.
func NewTransferStockUseCase(txRunner TxRunner, cache BranchInvalidator, notifier ports.Notifier) *TransferStockUseCase {
	return &TransferStockUseCase{txRunner: txRunner, cache: cache, notifier: notifier}
}

// TransferInput entrada de un traslado entre sucursales.
type TransferInput struct {
	TenantID     string
	UserID       string
	BatchID      string // lote origen
	FromBranchID string
	ToBranchID   string
	Quantity     int64
}

// Transfer ejecuta el traslado. Falla con ErrInvalidTransfer (sucursales
// iguales o cantidad no positiva), ErrBatchNotFound o ErrInsufficientStock.
// En éxito queda exactamente un StockTransfer registrado y se invalidan las
// vistas de stock bajo de ambas sucursales.
func (uc *TransferStockUseCase) Transfer(ctx context.Context, input TransferInput) (*entity.StockTransfer, error) {
	if input.TenantID == "" || input.BatchID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.FromBranchID == input.ToBranchID || input.Quantity <= 0 {
		return nil, domain.ErrInvalidTransfer
	}

	var transfer *entity.StockTransfer
	var sourceCrossed bool
	var source *entity.Batch
	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		entryRepo repository.LedgerEntryRepository,
		transferRepo repository.StockTransferRepository,
	) error {
		src, err := batchRepo.GetByID(ctx, input.TenantID, input.BatchID)
		if err != nil {
			return err
		}
		if src.BranchID != input.FromBranchID {
			return domain.ErrInvalidTransfer
		}

		transferID := uuid.New().String()

		// Lado origen: salida no-venta por la cantidad trasladada.
		outRes, src, err := applyToBatch(ctx, batchRepo, entryRepo, applyParams{
			tenantID:  input.TenantID,
			userID:    input.UserID,
			batchID:   src.ID,
			kind:      entity.KindOut,
			quantity:  input.Quantity,
			reference: transferID,
		})
		if err != nil {
			return err
		}

		// Lado destino: mismo número de lote en la sucursal destino.
		dest, err := batchRepo.GetByLot(ctx, input.TenantID, src.MedicineID, input.ToBranchID, src.BatchNumber)
		if errors.Is(err, domain.ErrBatchNotFound) {
			dest = src.CloneForBranch(input.ToBranchID)
			dest.ID = uuid.New().String()
			dest.CreatedAt = time.Now()
			dest.CreatedBy = input.UserID
			dest.UpdatedAt = dest.CreatedAt
			err = batchRepo.Create(ctx, dest)
		}
		if err != nil {
			return uc.compensate(ctx, batchRepo, entryRepo, input, transferID, "", err)
		}

		if _, _, err := applyToBatch(ctx, batchRepo, entryRepo, applyParams{
			tenantID:  input.TenantID,
			userID:    input.UserID,
			batchID:   dest.ID,
			kind:      entity.KindReceive,
			quantity:  input.Quantity,
			reference: transferID,
		}); err != nil {
			return uc.compensate(ctx, batchRepo, entryRepo, input, transferID, "", err)
		}

		transfer = &entity.StockTransfer{
			ID:            transferID,
			TenantID:      input.TenantID,
			BatchID:       src.ID,
			MedicineID:    src.MedicineID,
			BatchNumber:   src.BatchNumber,
			FromBranchID:  input.FromBranchID,
			ToBranchID:    input.ToBranchID,
			Quantity:      input.Quantity,
			TransferredAt: time.Now(),
			TransferredBy: input.UserID,
		}
		if err := transferRepo.Create(ctx, transfer); err != nil {
			return uc.compensate(ctx, batchRepo, entryRepo, input, transferID, dest.ID, err)
		}

		source = src
		sourceCrossed = outRes.CrossedLowThreshold
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Invalidate(input.TenantID, input.FromBranchID)
		uc.cache.Invalidate(input.TenantID, input.ToBranchID)
	}
	if sourceCrossed && uc.notifier != nil {
		uc.notifier.NotifyLowStock(ctx, ports.ThresholdEvent{
			TenantID:      source.TenantID,
			BranchID:      source.BranchID,
			BatchID:       source.ID,
			MedicineID:    source.MedicineID,
			BatchNumber:   source.BatchNumber,
			Quantity:      source.QuantityInStock,
			MinStockLevel: source.MinStockLevel,
		})
	}
	return transfer, nil
}

// compensate revierte los asientos ya aplicados cuando un paso posterior
// falla, para que en backends sin rollback transaccional el stock no se
// evapore ni se cree de la nada. receivedDestID no vacío indica que el
// destino ya recibió la cantidad y debe revertirse antes de re-acreditar el
// origen. Devuelve siempre el error original como causa.
func (uc *TransferStockUseCase) compensate(
	ctx context.Context,
	batchRepo repository.BatchRepository,
	entryRepo repository.LedgerEntryRepository,
	input TransferInput,
	transferID string,
	receivedDestID string,
	cause error,
) error {
	ctx = context.WithoutCancel(ctx)
	undoErrs := []error{cause}

	if receivedDestID != "" {
		if _, _, err := applyToBatch(ctx, batchRepo, entryRepo, applyParams{
			tenantID:  input.TenantID,
			userID:    input.UserID,
			batchID:   receivedDestID,
			kind:      entity.KindAdjustment,
			quantity:  -input.Quantity,
			reference: transferID,
		}); err != nil {
			undoErrs = append(undoErrs, err)
		}
	}

	if _, _, err := applyToBatch(ctx, batchRepo, entryRepo, applyParams{
		tenantID:  input.TenantID,
		userID:    input.UserID,
		batchID:   input.BatchID,
		kind:      entity.KindAdjustment,
		quantity:  input.Quantity,
		reference: transferID,
	}); err != nil {
		undoErrs = append(undoErrs, err)
	}

	if len(undoErrs) > 1 {
		// La transacción envolvente hará rollback; dejamos constancia del fallo doble.
		return errors.Join(undoErrs...)
	}
	return cause
}
