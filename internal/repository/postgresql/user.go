package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/user"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type directoryRepositoryImpl struct {
	db *database.DB
}

// NewDirectoryRepository creates a user directory backed by the users and tenant_memberships tables
func NewDirectoryRepository(db *database.DB) user.DirectoryRepository {
	return &directoryRepositoryImpl{db: db}
}

// FindByNameOrEmail implements user.DirectoryRepository.
func (r *directoryRepositoryImpl) FindByNameOrEmail(ctx context.Context, nameOrEmail string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	// username wins over email when both match different users
	query := `
		SELECT id, username, email, created_at
		FROM users
		WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($1)
		ORDER BY (LOWER(username) = LOWER($1)) DESC
		LIMIT 1
	`

	var u user.User
	err := q.QueryRow(ctx, query, nameOrEmail).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, user.ErrUserNotFound
		}
		return u, fmt.Errorf("failed to find user: %w", err)
	}

	return u, nil
}

// IsMember implements user.DirectoryRepository.
func (r *directoryRepositoryImpl) IsMember(ctx context.Context, tenantID, userID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM tenant_memberships WHERE tenant_id = $1 AND user_id = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, tenantID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	return exists, nil
}
