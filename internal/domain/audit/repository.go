package audit

import "context"

type AuditRepository interface {
	Record(ctx context.Context, event Event) error
}
