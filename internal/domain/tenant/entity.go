package tenant

import "time"

// Tenant is an organization-scoped partition that owns members and invitations
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
