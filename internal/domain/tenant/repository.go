package tenant

import "context"

type TenantRepository interface {
	// GetByID returns the tenant or ErrTenantNotFound
	GetByID(ctx context.Context, id string) (Tenant, error)
}
