package invitation

import "context"

// InvitationService defines the interface for invitation business logic
type InvitationService interface {
	// Create validates, deduplicates and persists an invitation, then notifies and audits.
	// The created Invitation is still returned with an error when a post-commit side effect failed.
	Create(ctx context.Context, tenantID string, req CreateRequest, actor Actor) (Invitation, error)

	// List returns a page of the tenant's invitations
	List(ctx context.Context, tenantID string, filter ListFilter) ([]InvitationResponse, error)

	// Remove revokes an invitation of the tenant
	Remove(ctx context.Context, tenantID, invitationID string, actor Actor) error

	// DefaultPageSize is applied when the caller does not pass max
	DefaultPageSize() int
}
