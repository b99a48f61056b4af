package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/audit"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/database"
)

type auditRepositoryImpl struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepositoryImpl{db: db}
}

// Record implements audit.AuditRepository.
func (r *auditRepositoryImpl) Record(ctx context.Context, event audit.Event) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_events (
			id, tenant_id, operation, resource_type, resource_path, resource_id,
			actor_id, representation, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var representation []byte
	if len(event.Representation) > 0 {
		representation = event.Representation
	}

	_, err := q.Exec(ctx, query,
		event.ID, event.TenantID, string(event.Operation), event.ResourceType, event.ResourcePath,
		event.ResourceID, event.ActorID, representation, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}

	return nil
}
