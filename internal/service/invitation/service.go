package invitation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/audit"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/invitation"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/tenant"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/user"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/email"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// Config carries the settings the service needs from the application config
type Config struct {
	FrontendURL     string
	DefaultPageSize int
}

type InvitationServiceImpl struct {
	invitationRepo invitation.InvitationRepository
	tenantRepo     tenant.TenantRepository
	directory      user.DirectoryRepository
	auditRepo      audit.AuditRepository
	emailService   email.EmailService
	cfg            Config

	now   func() time.Time
	newID func() (string, error)
}

func NewInvitationService(
	invitationRepo invitation.InvitationRepository,
	tenantRepo tenant.TenantRepository,
	directory user.DirectoryRepository,
	auditRepo audit.AuditRepository,
	emailService email.EmailService,
	cfg Config,
) invitation.InvitationService {
	return newInvitationService(invitationRepo, tenantRepo, directory, auditRepo, emailService, cfg)
}

func newInvitationService(
	invitationRepo invitation.InvitationRepository,
	tenantRepo tenant.TenantRepository,
	directory user.DirectoryRepository,
	auditRepo audit.AuditRepository,
	emailService email.EmailService,
	cfg Config,
) *InvitationServiceImpl {
	return &InvitationServiceImpl{
		invitationRepo: invitationRepo,
		tenantRepo:     tenantRepo,
		directory:      directory,
		auditRepo:      auditRepo,
		emailService:   emailService,
		cfg:            cfg,
		now:            time.Now,
		newID:          newUUIDv7,
	}
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// DefaultPageSize implements invitation.InvitationService.
func (s *InvitationServiceImpl) DefaultPageSize() int {
	return s.cfg.DefaultPageSize
}

// Create implements invitation.InvitationService.
func (s *InvitationServiceImpl) Create(ctx context.Context, tenantID string, req invitation.CreateRequest, actor invitation.Actor) (invitation.Invitation, error) {
	if err := req.Validate(); err != nil {
		return invitation.Invitation{}, err
	}

	t, err := s.getTenant(ctx, tenantID)
	if err != nil {
		return invitation.Invitation{}, err
	}

	normalizedEmail := validator.NormalizeEmail(req.Email)

	_, err = s.invitationRepo.FindByEmail(ctx, tenantID, normalizedEmail)
	if err == nil {
		return invitation.Invitation{}, fmt.Errorf("%w: %s", invitation.ErrInvitationAlreadyExists, normalizedEmail)
	}
	if !errors.Is(err, invitation.ErrInvitationNotFound) {
		return invitation.Invitation{}, fmt.Errorf("failed to check existing invitation: %w", err)
	}

	existingUser, err := s.directory.FindByNameOrEmail(ctx, normalizedEmail)
	switch {
	case err == nil:
		isMember, err := s.directory.IsMember(ctx, tenantID, existingUser.ID)
		if err != nil {
			return invitation.Invitation{}, fmt.Errorf("failed to check tenant membership: %w", err)
		}
		if isMember {
			return invitation.Invitation{}, fmt.Errorf("%w: %s", invitation.ErrAlreadyMember, normalizedEmail)
		}
	case !errors.Is(err, user.ErrUserNotFound):
		return invitation.Invitation{}, fmt.Errorf("failed to look up user: %w", err)
	}

	id, err := s.newID()
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("failed to generate invitation id: %w", err)
	}

	created, err := s.invitationRepo.Create(ctx, invitation.Invitation{
		ID:        id,
		TenantID:  tenantID,
		Email:     normalizedEmail,
		InvitedBy: actor.UserID,
		Roles:     invitation.NormalizeRoles(req.Roles),
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, invitation.ErrInvitationAlreadyExists) {
			return invitation.Invitation{}, err
		}
		return invitation.Invitation{}, fmt.Errorf("failed to create invitation: %w", err)
	}

	slog.InfoContext(ctx, "Invitation created",
		"tenant_id", tenantID,
		"invitation_id", created.ID,
		"invited_by", actor.UserID,
	)

	// Side effects run after commit and ignore request cancellation.
	postCommitCtx := context.WithoutCancel(ctx)

	link, err := s.invitationLink(created)
	if err != nil {
		return created, s.postCommitFailure(postCommitCtx, "build invitation link", created.ID, err)
	}
	if err := s.emailService.SendInvitation(postCommitCtx, created.Email, t.Name, link); err != nil {
		return created, s.postCommitFailure(postCommitCtx, "send invitation email", created.ID, err)
	}

	representation, err := json.Marshal(invitation.ToResponse(created))
	if err != nil {
		return created, s.postCommitFailure(postCommitCtx, "encode invitation", created.ID, err)
	}
	if err := s.recordEvent(postCommitCtx, audit.OperationCreate, created, actor, representation); err != nil {
		return created, s.postCommitFailure(postCommitCtx, "record audit event", created.ID, err)
	}

	return created, nil
}

// List implements invitation.InvitationService.
func (s *InvitationServiceImpl) List(ctx context.Context, tenantID string, filter invitation.ListFilter) ([]invitation.InvitationResponse, error) {
	if filter.First < 0 || filter.Max < 0 {
		return nil, invitation.ErrInvalidPagination
	}

	if _, err := s.getTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	invitations, err := s.invitationRepo.ListByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	responses := make([]invitation.InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		responses = append(responses, invitation.ToResponse(inv))
	}
	return responses, nil
}

// Remove implements invitation.InvitationService.
func (s *InvitationServiceImpl) Remove(ctx context.Context, tenantID, invitationID string, actor invitation.Actor) error {
	if _, err := s.getTenant(ctx, tenantID); err != nil {
		return err
	}
	if !validator.IsValidUUID(invitationID) {
		return invitation.ErrInvitationNotFound
	}

	revoked, err := s.invitationRepo.Revoke(ctx, tenantID, invitationID)
	if err != nil {
		return fmt.Errorf("failed to revoke invitation: %w", err)
	}
	if !revoked {
		return invitation.ErrInvitationNotFound
	}

	slog.InfoContext(ctx, "Invitation revoked",
		"tenant_id", tenantID,
		"invitation_id", invitationID,
		"revoked_by", actor.UserID,
	)

	postCommitCtx := context.WithoutCancel(ctx)
	revokedInv := invitation.Invitation{ID: invitationID, TenantID: tenantID}
	if err := s.recordEvent(postCommitCtx, audit.OperationDelete, revokedInv, actor, nil); err != nil {
		return s.postCommitFailure(postCommitCtx, "record audit event", invitationID, err)
	}
	return nil
}

func (s *InvitationServiceImpl) getTenant(ctx context.Context, tenantID string) (tenant.Tenant, error) {
	if !validator.IsValidUUID(tenantID) {
		return tenant.Tenant{}, tenant.ErrTenantNotFound
	}

	t, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return tenant.Tenant{}, err
		}
		return tenant.Tenant{}, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

func (s *InvitationServiceImpl) invitationLink(inv invitation.Invitation) (string, error) {
	link, err := url.JoinPath(s.cfg.FrontendURL, "invitations", inv.ID)
	if err != nil {
		return "", err
	}
	return link + "?tenant=" + url.QueryEscape(inv.TenantID), nil
}

func (s *InvitationServiceImpl) recordEvent(ctx context.Context, op audit.Operation, inv invitation.Invitation, actor invitation.Actor, representation json.RawMessage) error {
	id, err := s.newID()
	if err != nil {
		return fmt.Errorf("failed to generate event id: %w", err)
	}

	return s.auditRepo.Record(ctx, audit.Event{
		ID:             id,
		TenantID:       inv.TenantID,
		Operation:      op,
		ResourceType:   audit.ResourceTypeInvitation,
		ResourcePath:   fmt.Sprintf("tenants/%s/invitations/%s", inv.TenantID, inv.ID),
		ResourceID:     inv.ID,
		ActorID:        actor.UserID,
		Representation: representation,
		CreatedAt:      s.now().UTC(),
	})
}

func (s *InvitationServiceImpl) postCommitFailure(ctx context.Context, step, invitationID string, err error) error {
	slog.ErrorContext(ctx, "Post-commit step failed, invitation change is kept",
		"step", step,
		"invitation_id", invitationID,
		"error", err,
	)
	return fmt.Errorf("failed to %s: %w", step, err)
}
