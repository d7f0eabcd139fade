package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-api/internal/application/ledger"
	"github.com/jhoicas/farmacia-api/internal/application/ports"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	domledger "github.com/jhoicas/farmacia-api/internal/domain/ledger"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/memory"
)

const (
	testTenant = "tenant-1"
	testUser   = "user-1"
	testBranch = "branch-1"
)

// fakeNotifier captura los eventos emitidos.
type fakeNotifier struct {
	mu       sync.Mutex
	lowStock []ports.ThresholdEvent
	expiring []ports.ExpiryEvent
}

func (n *fakeNotifier) NotifyLowStock(_ context.Context, e ports.ThresholdEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lowStock = append(n.lowStock, e)
}

func (n *fakeNotifier) NotifyExpiring(_ context.Context, e ports.ExpiryEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expiring = append(n.expiring, e)
}

func (n *fakeNotifier) lowStockCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.lowStock)
}

// testEnv arma el motor completo sobre los repositorios en memoria.
type testEnv struct {
	batchRepo    *memory.BatchRepo
	entryRepo    *memory.LedgerEntryRepo
	transferRepo *memory.StockTransferRepo
	cache        *ledger.LowStockCache
	notifier     *fakeNotifier
	apply        *ledger.ApplyStockUseCase
	transfer     *ledger.TransferStockUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	batchRepo := memory.NewBatchRepository()
	entryRepo := memory.NewLedgerEntryRepository()
	transferRepo := memory.NewStockTransferRepository()
	txRunner := memory.NewTxRunner(batchRepo, entryRepo, transferRepo)
	cache := ledger.NewLowStockCache(batchRepo, 0)
	notifier := &fakeNotifier{}
	return &testEnv{
		batchRepo:    batchRepo,
		entryRepo:    entryRepo,
		transferRepo: transferRepo,
		cache:        cache,
		notifier:     notifier,
		apply:        ledger.NewApplyStockUseCase(txRunner, cache, notifier),
		transfer:     ledger.NewTransferStockUseCase(txRunner, cache, notifier),
	}
}

// seedBatch crea un lote con stock inicial directamente en el repositorio.
func (env *testEnv) seedBatch(t *testing.T, id string, branchID string, stock, minLevel int64) *entity.Batch {
	t.Helper()
	b := &entity.Batch{
		ID:                  id,
		TenantID:            testTenant,
		MedicineID:          "med-1",
		BranchID:            branchID,
		BatchNumber:         "L-" + id,
		ExpiryDate:          time.Now().Add(180 * 24 * time.Hour),
		QuantityInStock:     stock,
		PurchasePrice:       decimal.NewFromInt(100),
		RetailPrice:         decimal.NewFromInt(150),
		MinStockLevel:       minLevel,
		StockHandlingMethod: entity.StockHandlingFEFO,
	}
	require.NoError(t, env.batchRepo.Create(context.Background(), b))
	return b
}

func TestApply_VentaDescuentaYAsienta(t *testing.T) {
	env := newTestEnv(t)
	env.seedBatch(t, "b1", testBranch, 100, 10)

	res, err := env.apply.Apply(context.Background(), ledger.ApplyInput{
		TenantID: testTenant,
		UserID:   testUser,
		BatchID:  "b1",
		Kind:     entity.KindSale,
		Quantity: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(70), res.NewQuantity)
	assert.False(t, res.CrossedLowThreshold)

	// El asiento queda en el libro con cantidad firmada y precio de venta.
	entries, err := env.entryRepo.ListByBatch(context.Background(), testTenant, "b1", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.KindSale, entries[0].Kind)
	assert.Equal(t, int64(-30), entries[0].Quantity)
	assert.True(t, entries[0].UnitPrice.Equal(decimal.NewFromInt(150)))
	assert.True(t, entries[0].Total.Equal(decimal.NewFromInt(-4500)))
	assert.Equal(t, testUser, entries[0].CreatedBy)
}

// Escenario del umbral: 100 unidades, mínimo 10. Vender 95 deja 5 y cruza;
// vender 10 más es stock insuficiente y no toca el lote.
func TestApply_UmbralYStockInsuficiente(t *testing.T) {
	env := newTestEnv(t)
	env.seedBatch(t, "b1", testBranch, 100, 10)

	res, err := env.apply.Apply(context.Background(), ledger.ApplyInput{
		TenantID: testTenant, UserID: testUser, BatchID: "b1",
		Kind: entity.KindSale, Quantity: 95,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.NewQuantity)
	assert.True(t, res.CrossedLowThreshold)
	assert.Equal(t, 1, env.notifier.lowStockCount())

	_, err = env.apply.Apply(context.Background(), ledger.ApplyInput{
		TenantID: testTenant, UserID: testUser, BatchID: "b1",
		Kind: entity.KindSale, Quantity: 10,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	b, err := env.batchRepo.GetByID(context.Background(), testTenant, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), b.QuantityInStock, "el rechazo no debe tocar el lote")
	assert.Equal(t, int64(95), b.QuantitySold)

	// Solo la venta exitosa dejó asiento.
	entries, err := env.entryRepo.ListByBatch(context.Background(), testTenant, "b1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestApply_LoteInexistente(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.apply.Apply(context.Background(), ledger.ApplyInput{
		TenantID: testTenant, UserID: testUser, BatchID: "nope",
		Kind: entity.KindSale, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}

// Dos ventas concurrentes de 60 sobre 100 unidades: exactamente una gana.
// La perdedora reintenta por CAS, relee 40 y rebota por stock insuficiente.
func TestApply_VentasConcurrentes_SoloUnaGana(t *testing.T) {
	env := newTestEnv(t)
	env.seedBatch(t, "b1", testBranch, 100, 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.apply.Apply(context.Background(), ledger.ApplyInput{
				TenantID: testTenant, UserID: testUser, BatchID: "b1",
				Kind: entity.KindSale, Quantity: 60,
			})
		}(i)
	}
	wg.Wait()

	var okCount, insufficientCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficientCount++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, okCount, "exactamente una venta debe comprometerse")
	assert.Equal(t, 1, insufficientCount)

	b, err := env.batchRepo.GetByID(context.Background(), testTenant, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), b.QuantityInStock)
	assert.Equal(t, int64(60), b.QuantitySold)
	assert.Equal(t, int64(100), domledger.ConservationSum(b))
}

func TestReceive_CreaLoteYRecibe(t *testing.T) {
	env := newTestEnv(t)
	expiry := time.Now().Add(365 * 24 * time.Hour)

	res, err := env.apply.Receive(context.Background(), ledger.ReceiveInput{
		TenantID:      testTenant,
		UserID:        testUser,
		MedicineID:    "med-9",
		BranchID:      testBranch,
		BatchNumber:   "L-900",
		ExpiryDate:    expiry,
		Quantity:      200,
		PurchasePrice: decimal.NewFromInt(80),
		RetailPrice:   decimal.NewFromInt(120),
		MinStockLevel: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(200), res.NewQuantity)

	b, err := env.batchRepo.GetByLot(context.Background(), testTenant, "med-9", testBranch, "L-900")
	require.NoError(t, err)
	assert.Equal(t, int64(200), b.QuantityInStock)
	assert.Equal(t, int64(15), b.MinStockLevel)
	assert.Equal(t, entity.StockHandlingFEFO, b.StockHandlingMethod, "método por defecto")
	assert.Equal(t, testUser, b.CreatedBy)
}

// Recepciones repetidas sobre la misma tripleta acumulan en el mismo lote.
func TestReceive_MismaTripletaAcumula(t *testing.T) {
	env := newTestEnv(t)
	in := ledger.ReceiveInput{
		TenantID: testTenant, UserID: testUser,
		MedicineID: "med-9", BranchID: testBranch, BatchNumber: "L-900",
		ExpiryDate: time.Now().Add(365 * 24 * time.Hour),
		Quantity:   50, PurchasePrice: decimal.NewFromInt(80), RetailPrice: decimal.NewFromInt(120),
	}
	_, err := env.apply.Receive(context.Background(), in)
	require.NoError(t, err)
	_, err = env.apply.Receive(context.Background(), in)
	require.NoError(t, err)

	b, err := env.batchRepo.GetByLot(context.Background(), testTenant, "med-9", testBranch, "L-900")
	require.NoError(t, err)
	assert.Equal(t, int64(100), b.QuantityInStock)
}

func TestReceive_EntradaInvalida(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.apply.Receive(context.Background(), ledger.ReceiveInput{
		TenantID: testTenant, UserID: testUser,
		MedicineID: "med-9", BranchID: testBranch, BatchNumber: "L-900",
		Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Reintentos ante conflicto de versión ─────────────────────────────────────

// conflictBatchRepo siempre reporta conflicto de versión en Update.
type conflictBatchRepo struct {
	repository.BatchRepository
}

func (r *conflictBatchRepo) Update(ctx context.Context, b *entity.Batch) error {
	return domain.ErrConcurrentModification
}

// conflictTxRunner inyecta el repositorio conflictivo.
type conflictTxRunner struct {
	batchRepo    repository.BatchRepository
	entryRepo    repository.LedgerEntryRepository
	transferRepo repository.StockTransferRepository
}

func (r *conflictTxRunner) Run(ctx context.Context, fn func(
	repository.BatchRepository,
	repository.LedgerEntryRepository,
	repository.StockTransferRepository,
) error) error {
	return fn(r.batchRepo, r.entryRepo, r.transferRepo)
}

// Si el CAS nunca progresa, el caso de uso se rinde con ErrConcurrentModification
// tras agotar los reintentos, sin dejar asientos.
func TestApply_ConflictoPersistente_SeRinde(t *testing.T) {
	batchRepo := memory.NewBatchRepository()
	entryRepo := memory.NewLedgerEntryRepository()
	transferRepo := memory.NewStockTransferRepository()

	b := &entity.Batch{
		ID: "b1", TenantID: testTenant, MedicineID: "med-1", BranchID: testBranch,
		BatchNumber: "L-b1", ExpiryDate: time.Now().Add(time.Hour),
		QuantityInStock: 100, RetailPrice: decimal.NewFromInt(10),
	}
	require.NoError(t, batchRepo.Create(context.Background(), b))

	runner := &conflictTxRunner{
		batchRepo:    &conflictBatchRepo{BatchRepository: batchRepo},
		entryRepo:    entryRepo,
		transferRepo: transferRepo,
	}
	uc := ledger.NewApplyStockUseCase(runner, nil, nil)

	_, err := uc.Apply(context.Background(), ledger.ApplyInput{
		TenantID: testTenant, UserID: testUser, BatchID: "b1",
		Kind: entity.KindSale, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	entries, err := entryRepo.ListByBatch(context.Background(), testTenant, "b1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
