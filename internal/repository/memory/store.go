// Package memory provides process-local implementations of the repository
// interfaces. All state lives behind a single mutex, which also makes the
// invitation check-and-insert atomic per (tenant, email).
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/audit"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/invitation"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/tenant"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/user"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/fixtures"
)

type membershipKey struct {
	tenantID string
	userID   string
}

type Store struct {
	mu          sync.RWMutex
	tenants     map[string]tenant.Tenant
	users       []user.User
	memberships map[membershipKey]struct{}
	invitations map[string][]invitation.Invitation // tenantID -> insertion order
	events      []audit.Event
}

func NewStore() *Store {
	return &Store{
		tenants:     make(map[string]tenant.Tenant),
		memberships: make(map[membershipKey]struct{}),
		invitations: make(map[string][]invitation.Invitation),
	}
}

func (s *Store) Invitations() invitation.InvitationRepository { return &invitationRepository{s: s} }
func (s *Store) Tenants() tenant.TenantRepository             { return &tenantRepository{s: s} }
func (s *Store) Directory() user.DirectoryRepository          { return &directoryRepository{s: s} }
func (s *Store) Audit() audit.AuditRepository                 { return &auditRepository{s: s} }

// Seed implements fixtures.Seeder.
func (s *Store) Seed(_ context.Context, data fixtures.DevData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range data.Tenants {
		if _, exists := s.tenants[t.ID]; !exists {
			s.tenants[t.ID] = t
		}
	}
	for _, u := range data.Users {
		exists := slices.ContainsFunc(s.users, func(existing user.User) bool {
			return existing.ID == u.ID ||
				strings.EqualFold(existing.Username, u.Username) ||
				strings.EqualFold(existing.Email, u.Email)
		})
		if !exists {
			s.users = append(s.users, u)
		}
	}
	for _, m := range data.Memberships {
		s.memberships[membershipKey{tenantID: m.TenantID, userID: m.UserID}] = struct{}{}
	}
	return nil
}

// AuditEvents returns a copy of the recorded audit trail in recording order
func (s *Store) AuditEvents() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

type invitationRepository struct {
	s *Store
}

func (r *invitationRepository) FindByEmail(_ context.Context, tenantID, email string) (invitation.Invitation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, inv := range r.s.invitations[tenantID] {
		if inv.Email == email {
			return cloneInvitation(inv), nil
		}
	}
	return invitation.Invitation{}, invitation.ErrInvitationNotFound
}

func (r *invitationRepository) Create(_ context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.invitations[inv.TenantID] {
		if existing.Email == inv.Email {
			return invitation.Invitation{}, fmt.Errorf("%w: %s", invitation.ErrInvitationAlreadyExists, inv.Email)
		}
	}

	stored := cloneInvitation(inv)
	r.s.invitations[inv.TenantID] = append(r.s.invitations[inv.TenantID], stored)
	return cloneInvitation(stored), nil
}

func (r *invitationRepository) ListByTenant(_ context.Context, tenantID string, filter invitation.ListFilter) ([]invitation.Invitation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	page := filter.Apply(r.s.invitations[tenantID])
	for i := range page {
		page[i] = cloneInvitation(page[i])
	}
	return page, nil
}

func (r *invitationRepository) Revoke(_ context.Context, tenantID, invitationID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	list := r.s.invitations[tenantID]
	idx := slices.IndexFunc(list, func(inv invitation.Invitation) bool { return inv.ID == invitationID })
	if idx < 0 {
		return false, nil
	}
	r.s.invitations[tenantID] = slices.Delete(list, idx, idx+1)
	return true, nil
}

func cloneInvitation(inv invitation.Invitation) invitation.Invitation {
	inv.Roles = slices.Clone(inv.Roles)
	return inv
}

type tenantRepository struct {
	s *Store
}

func (r *tenantRepository) GetByID(_ context.Context, id string) (tenant.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tenants[id]
	if !ok {
		return tenant.Tenant{}, tenant.ErrTenantNotFound
	}
	return t, nil
}

type directoryRepository struct {
	s *Store
}

func (r *directoryRepository) FindByNameOrEmail(_ context.Context, nameOrEmail string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, nameOrEmail) {
			return u, nil
		}
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, nameOrEmail) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *directoryRepository) IsMember(_ context.Context, tenantID, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.memberships[membershipKey{tenantID: tenantID, userID: userID}]
	return ok, nil
}

type auditRepository struct {
	s *Store
}

func (r *auditRepository) Record(_ context.Context, event audit.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event.Representation = slices.Clone(event.Representation)
	r.s.events = append(r.s.events, event)
	return nil
}
