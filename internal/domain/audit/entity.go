package audit

import (
	"encoding/json"
	"time"
)

// Operation is the kind of change an event records
type Operation string

const (
	OperationCreate Operation = "CREATE"
	OperationDelete Operation = "DELETE"
)

const ResourceTypeInvitation = "invitation"

// Event is an admin audit record for a state change
type Event struct {
	ID             string
	TenantID       string
	Operation      Operation
	ResourceType   string
	ResourcePath   string
	ResourceID     string
	ActorID        string
	Representation json.RawMessage // nil for deletions
	CreatedAt      time.Time
}
