package invitation

import (
	"slices"
	"strings"
	"time"
)

// Invitation is a pending offer of tenant membership for an email address
type Invitation struct {
	ID        string
	TenantID  string
	Email     string // normalized, unique per tenant
	InvitedBy string
	Roles     []string
	CreatedAt time.Time
}

// NormalizeRoles trims role identifiers, drops blanks and collapses duplicates.
// The result is sorted so that equal role sets compare equal.
func NormalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

