package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

// MedicineRepo lectura del catálogo de medicamentos sobre PostgreSQL.
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

func (r *MedicineRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Medicine, error) {
	query := `
		SELECT id, tenant_id, name, composition, barcode, created_at
		FROM medicines WHERE tenant_id = $1 AND id = $2`
	return r.get(ctx, query, tenantID, id)
}

func (r *MedicineRepo) GetByName(ctx context.Context, tenantID, name string) (*entity.Medicine, error) {
	query := `
		SELECT id, tenant_id, name, composition, barcode, created_at
		FROM medicines WHERE tenant_id = $1 AND name = $2`
	return r.get(ctx, query, tenantID, name)
}

func (r *MedicineRepo) get(ctx context.Context, query string, args ...any) (*entity.Medicine, error) {
	var m entity.Medicine
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&m.ID, &m.TenantID, &m.Name, &m.Composition, &m.Barcode, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get medicine: %w", err)
	}
	return &m, nil
}
