package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/invitation"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const invitationEmailConstraint = "tenant_invitations_tenant_email_key"

type invitationRepositoryImpl struct {
	db *database.DB
}

// NewInvitationRepository creates a new invitation repository instance
func NewInvitationRepository(db *database.DB) invitation.InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

// FindByEmail implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) FindByEmail(ctx context.Context, tenantID, email string) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, email, invited_by, roles, created_at
		FROM tenant_invitations
		WHERE tenant_id = $1 AND email = $2
	`

	var inv invitation.Invitation
	err := q.QueryRow(ctx, query, tenantID, email).Scan(
		&inv.ID, &inv.TenantID, &inv.Email, &inv.InvitedBy, &inv.Roles, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inv, invitation.ErrInvitationNotFound
		}
		return inv, fmt.Errorf("failed to find invitation by email: %w", err)
	}

	return inv, nil
}

// Create implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Create(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tenant_invitations (id, tenant_id, email, invited_by, roles, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, tenant_id, email, invited_by, roles, created_at
	`

	roles := inv.Roles
	if roles == nil {
		roles = []string{}
	}

	var created invitation.Invitation
	err := q.QueryRow(ctx, query,
		inv.ID, inv.TenantID, inv.Email, inv.InvitedBy, roles, inv.CreatedAt,
	).Scan(
		&created.ID, &created.TenantID, &created.Email, &created.InvitedBy, &created.Roles, &created.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, invitationEmailConstraint) {
			return invitation.Invitation{}, fmt.Errorf("%w: %s", invitation.ErrInvitationAlreadyExists, inv.Email)
		}
		return invitation.Invitation{}, fmt.Errorf("failed to create invitation: %w", err)
	}

	return created, nil
}

// ListByTenant implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) ListByTenant(ctx context.Context, tenantID string, filter invitation.ListFilter) ([]invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	// strpos keeps the match a literal, case-sensitive substring test
	query := `
		SELECT id, tenant_id, email, invited_by, roles, created_at
		FROM tenant_invitations
		WHERE tenant_id = $1 AND ($2 = '' OR strpos(email, $2) > 0)
		ORDER BY created_at, id
		OFFSET $3
		LIMIT $4
	`

	rows, err := q.Query(ctx, query, tenantID, filter.Search, filter.First, filter.Max)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	invitations := make([]invitation.Invitation, 0)
	for rows.Next() {
		var inv invitation.Invitation
		if err := rows.Scan(&inv.ID, &inv.TenantID, &inv.Email, &inv.InvitedBy, &inv.Roles, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return invitations, nil
}

// Revoke implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Revoke(ctx context.Context, tenantID, invitationID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM tenant_invitations
		WHERE id = $1 AND tenant_id = $2
	`

	tag, err := q.Exec(ctx, query, invitationID, tenantID)
	if err != nil {
		return false, fmt.Errorf("failed to revoke invitation: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
