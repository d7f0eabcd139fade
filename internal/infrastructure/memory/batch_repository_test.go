package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/memory"
)

const testTenant = "tenant-1"

func seed(t *testing.T, repo *memory.BatchRepo, id, branchID string, stock int64) *entity.Batch {
	t.Helper()
	b := &entity.Batch{
		ID: id, TenantID: testTenant, MedicineID: "med-1", BranchID: branchID,
		BatchNumber: "L-" + id, ExpiryDate: time.Now().Add(90 * 24 * time.Hour),
		QuantityInStock: stock, MinStockLevel: 10,
	}
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

// Update es un compare-and-swap: una versión desactualizada no escribe nada.
func TestBatchRepo_UpdateCAS(t *testing.T) {
	repo := memory.NewBatchRepository()
	seed(t, repo, "b1", "branch-1", 100)

	// Dos lectores toman la misma versión.
	first, err := repo.GetByID(context.Background(), testTenant, "b1")
	require.NoError(t, err)
	second, err := repo.GetByID(context.Background(), testTenant, "b1")
	require.NoError(t, err)

	first.QuantityInStock = 70
	require.NoError(t, repo.Update(context.Background(), first))
	assert.Equal(t, int64(1), first.Version, "la versión avanza al escribir")

	second.QuantityInStock = 40
	err = repo.Update(context.Background(), second)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	current, err := repo.GetByID(context.Background(), testTenant, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(70), current.QuantityInStock, "la escritura perdedora no debe aplicar")
}

func TestBatchRepo_UpdateTrasReleer(t *testing.T) {
	repo := memory.NewBatchRepository()
	seed(t, repo, "b1", "branch-1", 100)

	stale, err := repo.GetByID(context.Background(), testTenant, "b1")
	require.NoError(t, err)

	winner, err := repo.GetByID(context.Background(), testTenant, "b1")
	require.NoError(t, err)
	winner.QuantityInStock = 70
	require.NoError(t, repo.Update(context.Background(), winner))

	require.ErrorIs(t, repo.Update(context.Background(), stale), domain.ErrConcurrentModification)

	// Releer y reintentar funciona.
	fresh, err := repo.GetByID(context.Background(), testTenant, "b1")
	require.NoError(t, err)
	fresh.QuantityInStock = 40
	assert.NoError(t, repo.Update(context.Background(), fresh))
}

func TestBatchRepo_CreateDuplicado(t *testing.T) {
	repo := memory.NewBatchRepository()
	seed(t, repo, "b1", "branch-1", 100)

	// Misma identidad de negocio con otro ID.
	dup := &entity.Batch{
		ID: "b2", TenantID: testTenant, MedicineID: "med-1", BranchID: "branch-1",
		BatchNumber: "L-b1", ExpiryDate: time.Now(),
	}
	assert.ErrorIs(t, repo.Create(context.Background(), dup), domain.ErrDuplicate)
}

func TestBatchRepo_GetByLot(t *testing.T) {
	repo := memory.NewBatchRepository()
	seed(t, repo, "b1", "branch-1", 100)

	b, err := repo.GetByLot(context.Background(), testTenant, "med-1", "branch-1", "L-b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", b.ID)

	_, err = repo.GetByLot(context.Background(), testTenant, "med-1", "branch-2", "L-b1")
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}

func TestBatchRepo_ListExpiringBefore(t *testing.T) {
	repo := memory.NewBatchRepository()
	soon := seed(t, repo, "pronto", "branch-1", 10)
	soon.ExpiryDate = time.Now().Add(24 * time.Hour)
	require.NoError(t, repo.Update(context.Background(), soon))

	seed(t, repo, "lejano", "branch-1", 10) // vence en 90 días

	// Lote sin stock: no interesa aunque venza.
	empty := seed(t, repo, "vacio", "branch-1", 0)
	empty.ExpiryDate = time.Now().Add(24 * time.Hour)
	require.NoError(t, repo.Update(context.Background(), empty))

	out, err := repo.ListExpiringBefore(context.Background(), testTenant, time.Now().Add(7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "pronto", out[0].ID)
}

func TestBatchRepo_ListTenants(t *testing.T) {
	repo := memory.NewBatchRepository()
	seed(t, repo, "b1", "branch-1", 10)

	other := &entity.Batch{
		ID: "b2", TenantID: "tenant-2", MedicineID: "med-1", BranchID: "branch-1",
		BatchNumber: "L-b2", ExpiryDate: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), other))

	tenants, err := repo.ListTenants(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{testTenant, "tenant-2"}, tenants)
}
