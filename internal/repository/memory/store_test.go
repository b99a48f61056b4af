package memory

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/audit"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/invitation"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/tenant"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/user"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/fixtures"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tenantA = "01929b6e-0000-7000-8000-00000000000a"
	tenantB = "01929b6e-0000-7000-8000-00000000000b"
)

func newInvitation(tenantID, id, email string) invitation.Invitation {
	return invitation.Invitation{
		ID:        id,
		TenantID:  tenantID,
		Email:     email,
		InvitedBy: "admin",
		Roles:     []string{"viewer"},
		CreatedAt: time.Now().UTC(),
	}
}

func TestInvitationRepository_CreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Invitations()

	_, err := repo.Create(ctx, newInvitation(tenantA, "1", "a@b.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newInvitation(tenantA, "2", "a@b.com"))
	assert.ErrorIs(t, err, invitation.ErrInvitationAlreadyExists)

	// same email in another tenant is independent
	_, err = repo.Create(ctx, newInvitation(tenantB, "3", "a@b.com"))
	assert.NoError(t, err)
}

func TestInvitationRepository_ConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Invitations()

	const workers = 32
	var wg conc.WaitGroup
	var successes, conflicts atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Go(func() {
			_, err := repo.Create(ctx, newInvitation(tenantA, fmt.Sprintf("id-%d", i), "race@b.com"))
			switch {
			case err == nil:
				successes.Add(1)
			case invitation.KindOf(err) == invitation.KindConflict:
				conflicts.Add(1)
			}
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())

	page, err := repo.ListByTenant(ctx, tenantA, invitation.ListFilter{Max: 100})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestInvitationRepository_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Invitations()

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, newInvitation(tenantA, fmt.Sprintf("id-%d", i), fmt.Sprintf("u%d@b.com", i)))
		require.NoError(t, err)
	}

	page, err := repo.ListByTenant(ctx, tenantA, invitation.ListFilter{First: 1, Max: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "id-1", page[0].ID)
	assert.Equal(t, "id-2", page[1].ID)

	// returned records do not alias stored state
	page[0].Roles[0] = "owner"
	again, err := repo.FindByEmail(ctx, tenantA, "u1@b.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"viewer"}, again.Roles)
}

func TestInvitationRepository_RevokeScopedToTenant(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Invitations()

	_, err := repo.Create(ctx, newInvitation(tenantA, "inv-1", "a@b.com"))
	require.NoError(t, err)

	revoked, err := repo.Revoke(ctx, tenantB, "inv-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = repo.Revoke(ctx, tenantA, "inv-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.Revoke(ctx, tenantA, "inv-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	_, err = repo.FindByEmail(ctx, tenantA, "a@b.com")
	assert.ErrorIs(t, err, invitation.ErrInvitationNotFound)
}

func TestStore_SeedAndDirectory(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Seed(ctx, fixtures.DevelopmentData()))
	require.NoError(t, store.Seed(ctx, fixtures.DevelopmentData()))

	got, err := store.Tenants().GetByID(ctx, fixtures.DevTenantID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name)

	_, err = store.Tenants().GetByID(ctx, tenantA)
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)

	member, err := store.Directory().FindByNameOrEmail(ctx, "MEMBER@acme.test")
	require.NoError(t, err)
	assert.Equal(t, fixtures.DevMemberUserID, member.ID)

	byName, err := store.Directory().FindByNameOrEmail(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, fixtures.DevAdminUserID, byName.ID)

	_, err = store.Directory().FindByNameOrEmail(ctx, "ghost@acme.test")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	isMember, err := store.Directory().IsMember(ctx, fixtures.DevTenantID, member.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	isMember, err = store.Directory().IsMember(ctx, tenantA, member.ID)
	require.NoError(t, err)
	assert.False(t, isMember)
}

func TestAuditRepository_Record(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Audit().Record(ctx, audit.Event{ID: "e1", Operation: audit.OperationCreate}))
	require.NoError(t, store.Audit().Record(ctx, audit.Event{ID: "e2", Operation: audit.OperationDelete}))

	events := store.AuditEvents()
	require.Len(t, events, 2)
	assert.Equal(t, audit.OperationCreate, events[0].Operation)
	assert.Equal(t, audit.OperationDelete, events[1].Operation)
}
