package fixtures

import (
	"context"
	"time"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/tenant"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/user"
)

// Fixed IDs so that tokens minted with cmd/devtoken keep working across restarts
const (
	DevTenantID     = "01929b6e-3c1a-7d2e-9f00-000000000001"
	DevAdminUserID  = "01929b6e-3c1a-7d2e-9f00-000000000101"
	DevMemberUserID = "01929b6e-3c1a-7d2e-9f00-000000000102"
	DevMemberEmail  = "member@acme.test"
)

// DevData is the set of directory records seeded for local development
type DevData struct {
	Tenants     []tenant.Tenant
	Users       []user.User
	Memberships []user.Membership
}

// Seeder inserts DevData, skipping records that already exist
type Seeder interface {
	Seed(ctx context.Context, data DevData) error
}

// DevelopmentData returns one tenant with an admin and a regular member
func DevelopmentData() DevData {
	now := time.Now().UTC()
	return DevData{
		Tenants: []tenant.Tenant{
			{ID: DevTenantID, Name: "Acme Corp", CreatedAt: now},
		},
		Users: []user.User{
			{ID: DevAdminUserID, Username: "admin", Email: "admin@acme.test", CreatedAt: now},
			{ID: DevMemberUserID, Username: "member", Email: DevMemberEmail, CreatedAt: now},
		},
		Memberships: []user.Membership{
			{TenantID: DevTenantID, UserID: DevAdminUserID, CreatedAt: now},
			{TenantID: DevTenantID, UserID: DevMemberUserID, CreatedAt: now},
		},
	}
}
