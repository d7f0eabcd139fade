package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TenantSource enumera los tenants con lotes registrados, para el escáner de
// vencimientos. Siempre sobre el pool.
type TenantSource struct {
	pool *pgxpool.Pool
}

// NewTenantSource construye el adaptador.
func NewTenantSource(pool *pgxpool.Pool) *TenantSource {
	return &TenantSource{pool: pool}
}

// ListTenants devuelve los tenant_id distintos presentes en la tabla de lotes.
func (s *TenantSource) ListTenants(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT tenant_id FROM batches`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
