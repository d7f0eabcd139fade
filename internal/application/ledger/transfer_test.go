package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-api/internal/application/ledger"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	domledger "github.com/jhoicas/farmacia-api/internal/domain/ledger"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

const destBranch = "branch-2"

// Traslado feliz: el origen baja, el destino se crea con el mismo número de
// lote y queda exactamente un registro de traslado.
func TestTransfer_CreaLoteDestinoYRegistra(t *testing.T) {
	env := newTestEnv(t)
	src := env.seedBatch(t, "b1", testBranch, 50, 5)

	transfer, err := env.transfer.Transfer(context.Background(), ledger.TransferInput{
		TenantID:     testTenant,
		UserID:       testUser,
		BatchID:      "b1",
		FromBranchID: testBranch,
		ToBranchID:   destBranch,
		Quantity:     30,
	})
	require.NoError(t, err)
	require.NotNil(t, transfer)
	assert.Equal(t, src.BatchNumber, transfer.BatchNumber)
	assert.Equal(t, int64(30), transfer.Quantity)
	assert.Equal(t, 1, env.transferRepo.Count(), "exactamente un traslado registrado")

	// Origen: 20 en stock, 30 en salidas.
	after, err := env.batchRepo.GetByID(context.Background(), testTenant, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), after.QuantityInStock)
	assert.Equal(t, int64(30), after.QuantityOut)

	// Destino: mismo número de lote, mismo vencimiento, 30 en stock.
	dest, err := env.batchRepo.GetByLot(context.Background(), testTenant, src.MedicineID, destBranch, src.BatchNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(30), dest.QuantityInStock)
	assert.True(t, dest.ExpiryDate.Equal(src.ExpiryDate), "el traslado preserva el vencimiento del lote")
	assert.True(t, dest.PurchasePrice.Equal(src.PurchasePrice))

	// Nada se evaporó entre las dos sucursales.
	assert.Equal(t, int64(50), after.QuantityInStock+dest.QuantityInStock)
	assert.Equal(t, int64(50), domledger.ConservationSum(after))
}

// Un segundo traslado del mismo lote acumula sobre el lote destino existente.
func TestTransfer_DestinoExistenteAcumula(t *testing.T) {
	env := newTestEnv(t)
	src := env.seedBatch(t, "b1", testBranch, 50, 0)

	for i := 0; i < 2; i++ {
		_, err := env.transfer.Transfer(context.Background(), ledger.TransferInput{
			TenantID: testTenant, UserID: testUser, BatchID: "b1",
			FromBranchID: testBranch, ToBranchID: destBranch, Quantity: 10,
		})
		require.NoError(t, err)
	}

	dest, err := env.batchRepo.GetByLot(context.Background(), testTenant, src.MedicineID, destBranch, src.BatchNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(20), dest.QuantityInStock)
	assert.Equal(t, 2, env.transferRepo.Count())
}

func TestTransfer_MismaSucursal_Rechazado(t *testing.T) {
	env := newTestEnv(t)
	env.seedBatch(t, "b1", testBranch, 50, 0)

	_, err := env.transfer.Transfer(context.Background(), ledger.TransferInput{
		TenantID: testTenant, UserID: testUser, BatchID: "b1",
		FromBranchID: testBranch, ToBranchID: testBranch, Quantity: 10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
	assert.Equal(t, 0, env.transferRepo.Count())
}

func TestTransfer_CantidadNoPositiva_Rechazado(t *testing.T) {
	env := newTestEnv(t)
	env.seedBatch(t, "b1", testBranch, 50, 0)

	for _, qty := range []int64{0, -5} {
		_, err := env.transfer.Transfer(context.Background(), ledger.TransferInput{
			TenantID: testTenant, UserID: testUser, BatchID: "b1",
			FromBranchID: testBranch, ToBranchID: destBranch, Quantity: qty,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
	}
}

// El lote no pertenece a la sucursal origen declarada.
func TestTransfer_SucursalOrigenIncorrecta_Rechazado(t *testing.T) {
	env := newTestEnv(t)
	env.seedBatch(t, "b1", testBranch, 50, 0)

	_, err := env.transfer.Transfer(context.Background(), ledger.TransferInput{
		TenantID: testTenant, UserID: testUser, BatchID: "b1",
		FromBranchID: "branch-otra", ToBranchID: destBranch, Quantity: 10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)

	b, err := env.batchRepo.GetByID(context.Background(), testTenant, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), b.QuantityInStock, "el rechazo no debe tocar el origen")
}

func TestTransfer_StockInsuficiente(t *testing.T) {
	env := newTestEnv(t)
	env.seedBatch(t, "b1", testBranch, 20, 0)

	_, err := env.transfer.Transfer(context.Background(), ledger.TransferInput{
		TenantID: testTenant, UserID: testUser, BatchID: "b1",
		FromBranchID: testBranch, ToBranchID: destBranch, Quantity: 21,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	b, err := env.batchRepo.GetByID(context.Background(), testTenant, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), b.QuantityInStock)
	assert.Equal(t, 0, env.transferRepo.Count())
}

func TestTransfer_LoteInexistente(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.transfer.Transfer(context.Background(), ledger.TransferInput{
		TenantID: testTenant, UserID: testUser, BatchID: "nope",
		FromBranchID: testBranch, ToBranchID: destBranch, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}

// brokenTransferRepo rechaza todo registro de traslado.
type brokenTransferRepo struct {
	repository.StockTransferRepository
}

func (brokenTransferRepo) Create(context.Context, *entity.StockTransfer) error {
	return domain.ErrPersistence
}

// passthroughTxRunner entrega los repos al callback sin transacción, como un
// backend sin rollback.
type passthroughTxRunner struct {
	batchRepo    repository.BatchRepository
	entryRepo    repository.LedgerEntryRepository
	transferRepo repository.StockTransferRepository
}

func (r *passthroughTxRunner) Run(_ context.Context, fn func(
	repository.BatchRepository,
	repository.LedgerEntryRepository,
	repository.StockTransferRepository,
) error) error {
	return fn(r.batchRepo, r.entryRepo, r.transferRepo)
}

// Si el registro del traslado falla después de acreditar el destino, la
// compensación revierte ambos lados: ninguna sucursal gana stock de la nada.
func TestTransfer_FalloAlRegistrar_RevierteAmbosLados(t *testing.T) {
	env := newTestEnv(t)
	src := env.seedBatch(t, "b1", testBranch, 50, 0)

	runner := &passthroughTxRunner{
		batchRepo:    env.batchRepo,
		entryRepo:    env.entryRepo,
		transferRepo: brokenTransferRepo{env.transferRepo},
	}
	transfer := ledger.NewTransferStockUseCase(runner, env.cache, nil)

	_, err := transfer.Transfer(context.Background(), ledger.TransferInput{
		TenantID: testTenant, UserID: testUser, BatchID: "b1",
		FromBranchID: testBranch, ToBranchID: destBranch, Quantity: 30,
	})
	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 0, env.transferRepo.Count())

	// Origen re-acreditado.
	after, err := env.batchRepo.GetByID(context.Background(), testTenant, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), after.QuantityInStock)

	// Destino revertido: el clon existe pero quedó en cero.
	dest, err := env.batchRepo.GetByLot(context.Background(), testTenant, src.MedicineID, destBranch, src.BatchNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(0), dest.QuantityInStock)
	assert.Equal(t, int64(50), after.QuantityInStock+dest.QuantityInStock)
}

// El traslado deja dos asientos referenciados por el ID del traslado:
// OUT en el origen y RECEIVE en el destino.
func TestTransfer_AsientosDelLibro(t *testing.T) {
	env := newTestEnv(t)
	src := env.seedBatch(t, "b1", testBranch, 50, 0)

	transfer, err := env.transfer.Transfer(context.Background(), ledger.TransferInput{
		TenantID: testTenant, UserID: testUser, BatchID: "b1",
		FromBranchID: testBranch, ToBranchID: destBranch, Quantity: 30,
	})
	require.NoError(t, err)

	srcEntries, err := env.entryRepo.ListByBatch(context.Background(), testTenant, "b1", 10, 0)
	require.NoError(t, err)
	require.Len(t, srcEntries, 1)
	assert.Equal(t, entity.KindOut, srcEntries[0].Kind)
	assert.Equal(t, int64(-30), srcEntries[0].Quantity)
	assert.Equal(t, transfer.ID, srcEntries[0].Reference)

	dest, err := env.batchRepo.GetByLot(context.Background(), testTenant, src.MedicineID, destBranch, src.BatchNumber)
	require.NoError(t, err)
	destEntries, err := env.entryRepo.ListByBatch(context.Background(), testTenant, dest.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, destEntries, 1)
	assert.Equal(t, entity.KindReceive, destEntries[0].Kind)
	assert.Equal(t, int64(30), destEntries[0].Quantity)
	assert.Equal(t, transfer.ID, destEntries[0].Reference)
}
