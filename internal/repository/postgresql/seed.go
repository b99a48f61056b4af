package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/fixtures"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/database"
)

type seederImpl struct {
	db *database.DB
}

// NewSeeder returns a fixtures.Seeder that writes all records in one transaction
func NewSeeder(db *database.DB) fixtures.Seeder {
	return &seederImpl{db: db}
}

// Seed implements fixtures.Seeder.
func (s *seederImpl) Seed(ctx context.Context, data fixtures.DevData) error {
	return WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, s.db)

		for _, t := range data.Tenants {
			if _, err := q.Exec(txCtx, `
				INSERT INTO tenants (id, name, created_at) VALUES ($1, $2, $3)
				ON CONFLICT (id) DO NOTHING
			`, t.ID, t.Name, t.CreatedAt); err != nil {
				return fmt.Errorf("failed to seed tenant %s: %w", t.ID, err)
			}
		}

		for _, u := range data.Users {
			if _, err := q.Exec(txCtx, `
				INSERT INTO users (id, username, email, created_at) VALUES ($1, $2, $3, $4)
				ON CONFLICT DO NOTHING
			`, u.ID, u.Username, u.Email, u.CreatedAt); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.ID, err)
			}
		}

		for _, m := range data.Memberships {
			if _, err := q.Exec(txCtx, `
				INSERT INTO tenant_memberships (tenant_id, user_id, created_at) VALUES ($1, $2, $3)
				ON CONFLICT (tenant_id, user_id) DO NOTHING
			`, m.TenantID, m.UserID, m.CreatedAt); err != nil {
				return fmt.Errorf("failed to seed membership %s/%s: %w", m.TenantID, m.UserID, err)
			}
		}

		return nil
	})
}
