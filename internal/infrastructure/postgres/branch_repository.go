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

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo lectura de sucursales sobre PostgreSQL.
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

func (r *BranchRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Branch, error) {
	query := `SELECT id, tenant_id, name, created_at FROM branches WHERE tenant_id = $1 AND id = $2`
	var b entity.Branch
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(&b.ID, &b.TenantID, &b.Name, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return &b, nil
}

func (r *BranchRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.Branch, error) {
	query := `SELECT id, tenant_id, name, created_at FROM branches WHERE tenant_id = $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()
	var out []*entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(&b.ID, &b.TenantID, &b.Name, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}
