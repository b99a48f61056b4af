package user

import (
	"context"
)

// DirectoryRepository resolves users and their tenant memberships
type DirectoryRepository interface {
	// FindByNameOrEmail matches the username or email case-insensitively, or returns ErrUserNotFound
	FindByNameOrEmail(ctx context.Context, nameOrEmail string) (User, error)
	IsMember(ctx context.Context, tenantID, userID string) (bool, error)
}
