package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-api/internal/application/ledger"
	"github.com/jhoicas/farmacia-api/internal/application/reports"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/memory"
)

const (
	testTenant = "tenant-1"
	testUser   = "user-1"
	testBranch = "branch-1"
)

// reportsEnv motor en memoria más el feed de reportes sobre los mismos repos.
type reportsEnv struct {
	batchRepo *memory.BatchRepo
	apply     *ledger.ApplyStockUseCase
	reporting *reports.ReportingUseCase
}

func newReportsEnv(t *testing.T) *reportsEnv {
	t.Helper()
	batchRepo := memory.NewBatchRepository()
	entryRepo := memory.NewLedgerEntryRepository()
	transferRepo := memory.NewStockTransferRepository()
	txRunner := memory.NewTxRunner(batchRepo, entryRepo, transferRepo)
	reportingRepo := memory.NewReportingRepository(entryRepo, batchRepo)
	return &reportsEnv{
		batchRepo: batchRepo,
		apply:     ledger.NewApplyStockUseCase(txRunner, nil, nil),
		reporting: reports.NewReportingUseCase(batchRepo, reportingRepo),
	}
}

// seedAndSell recibe un lote y vende parte, dejando asientos reales en el libro.
func (env *reportsEnv) seedAndSell(t *testing.T, medicineID, batchNumber string, purchase, retail int64, received, sold int64) string {
	t.Helper()
	res, err := env.apply.Receive(context.Background(), ledger.ReceiveInput{
		TenantID: testTenant, UserID: testUser,
		MedicineID: medicineID, BranchID: testBranch, BatchNumber: batchNumber,
		ExpiryDate: time.Now().Add(365 * 24 * time.Hour),
		Quantity:   received,
		PurchasePrice: decimal.NewFromInt(purchase), RetailPrice: decimal.NewFromInt(retail),
	})
	require.NoError(t, err)
	if sold > 0 {
		_, err = env.apply.Apply(context.Background(), ledger.ApplyInput{
			TenantID: testTenant, UserID: testUser, BatchID: res.BatchID,
			Kind: entity.KindSale, Quantity: sold,
		})
		require.NoError(t, err)
	}
	return res.BatchID
}

func TestDailySales_AgregaLasVentasDelDia(t *testing.T) {
	env := newReportsEnv(t)
	env.seedAndSell(t, "med-1", "L-1", 100, 150, 100, 30)
	env.seedAndSell(t, "med-2", "L-2", 50, 80, 100, 10)

	report, err := env.reporting.DailySales(context.Background(), testTenant, testBranch, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, int64(40), report.UnitsSold)
	assert.Equal(t, int64(2), report.SaleCount)
	// 30*150 + 10*80 = 5300
	assert.True(t, report.Revenue.Equal(decimal.NewFromInt(5300)), report.Revenue.String())
}

func TestDailySales_DiaSinVentas(t *testing.T) {
	env := newReportsEnv(t)
	env.seedAndSell(t, "med-1", "L-1", 100, 150, 100, 0)

	report, err := env.reporting.DailySales(context.Background(), testTenant, testBranch, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.UnitsSold)
	assert.True(t, report.Revenue.IsZero())
}

func TestProfitLoss_NetoDeDevoluciones(t *testing.T) {
	env := newReportsEnv(t)
	batchID := env.seedAndSell(t, "med-1", "L-1", 100, 150, 100, 30)

	// Devolución de 5 unidades: revierte venta e ingreso.
	_, err := env.apply.Apply(context.Background(), ledger.ApplyInput{
		TenantID: testTenant, UserID: testUser, BatchID: batchID,
		Kind: entity.KindReturn, Quantity: 5,
	})
	require.NoError(t, err)

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)
	report, err := env.reporting.ProfitLoss(context.Background(), testTenant, testBranch, from, to)
	require.NoError(t, err)

	// Ingreso neto: (30-5)*150 = 3750. Costo neto: 25*100 = 2500.
	assert.True(t, report.Revenue.Equal(decimal.NewFromInt(3750)), report.Revenue.String())
	assert.True(t, report.Cost.Equal(decimal.NewFromInt(2500)), report.Cost.String())
	assert.True(t, report.Profit.Equal(decimal.NewFromInt(1250)), report.Profit.String())
}

func TestMedicinePerformance(t *testing.T) {
	env := newReportsEnv(t)
	env.seedAndSell(t, "med-1", "L-1", 100, 150, 100, 20)
	env.seedAndSell(t, "med-2", "L-2", 10, 20, 100, 50) // otro medicamento

	perf, err := env.reporting.MedicinePerformance(context.Background(), testTenant, "med-1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), perf.UnitsSold)
	assert.True(t, perf.GrossAmount.Equal(decimal.NewFromInt(3000)), perf.GrossAmount.String())
	// Margen: 20*(150-100) = 1000.
	assert.True(t, perf.GrossProfit.Equal(decimal.NewFromInt(1000)), perf.GrossProfit.String())
}

func TestStockAging_ClasificaPorVencimiento(t *testing.T) {
	env := newReportsEnv(t)
	now := time.Now()
	seed := func(id string, expiry time.Time, qty int64) {
		b := &entity.Batch{
			ID: id, TenantID: testTenant, MedicineID: "med-" + id, BranchID: testBranch,
			BatchNumber: "L-" + id, ExpiryDate: expiry, QuantityInStock: qty,
			MinStockLevel: 1,
		}
		require.NoError(t, env.batchRepo.Create(context.Background(), b))
	}
	seed("vencido", now.Add(-24*time.Hour), 5)
	seed("pronto", now.Add(10*24*time.Hour), 10)
	seed("medio", now.Add(60*24*time.Hour), 20)
	seed("fresco", now.Add(200*24*time.Hour), 40)

	report, err := env.reporting.StockAging(context.Background(), testTenant, testBranch)
	require.NoError(t, err)
	require.Len(t, report.Buckets, 4)

	byBucket := map[string]int64{}
	for _, b := range report.Buckets {
		byBucket[b.Bucket] = b.Units
	}
	assert.Equal(t, int64(5), byBucket["expired"])
	assert.Equal(t, int64(10), byBucket["under_30d"])
	assert.Equal(t, int64(20), byBucket["under_90d"])
	assert.Equal(t, int64(40), byBucket["fresh"])
}
