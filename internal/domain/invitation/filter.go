package invitation

import "strings"

// ListFilter selects a page of a tenant's invitations. Search is matched as a
// case-sensitive substring of the stored (already lower-cased) email.
type ListFilter struct {
	Search string
	First  int
	Max    int
}

// Matches reports whether inv passes the search term
func (f ListFilter) Matches(inv Invitation) bool {
	return f.Search == "" || strings.Contains(inv.Email, f.Search)
}

// Apply filters invitations, then skips First and keeps at most Max.
// The input order is preserved.
func (f ListFilter) Apply(invitations []Invitation) []Invitation {
	result := make([]Invitation, 0)
	skipped := 0
	for _, inv := range invitations {
		if len(result) >= f.Max {
			break
		}
		if !f.Matches(inv) {
			continue
		}
		if skipped < f.First {
			skipped++
			continue
		}
		result = append(result, inv)
	}
	return result
}
