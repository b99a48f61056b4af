package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/tenant"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type tenantRepositoryImpl struct {
	db *database.DB
}

func NewTenantRepository(db *database.DB) tenant.TenantRepository {
	return &tenantRepositoryImpl{db: db}
}

// GetByID implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) GetByID(ctx context.Context, id string) (tenant.Tenant, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, created_at FROM tenants WHERE id = $1`

	var t tenant.Tenant
	err := q.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, tenant.ErrTenantNotFound
		}
		return t, fmt.Errorf("failed to get tenant by id: %w", err)
	}

	return t, nil
}
