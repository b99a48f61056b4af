package invitation

import "context"

// InvitationRepository defines the interface for tenant-owned invitation records
type InvitationRepository interface {
	// FindByEmail returns the tenant's invitation for a normalized email, or ErrInvitationNotFound
	FindByEmail(ctx context.Context, tenantID, email string) (Invitation, error)

	// Create persists a new invitation. Implementations must enforce (tenant, email)
	// uniqueness at write time and return ErrInvitationAlreadyExists on violation.
	Create(ctx context.Context, inv Invitation) (Invitation, error)

	// ListByTenant returns a filtered page in a deterministic order (creation time, then id)
	ListByTenant(ctx context.Context, tenantID string, filter ListFilter) ([]Invitation, error)

	// Revoke deletes the invitation if it belongs to the tenant and reports whether it existed
	Revoke(ctx context.Context, tenantID, invitationID string) (bool, error)
}
