package invitation

import (
	"time"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/validator"
)

// CreateRequest - POST /tenants/{tenantID}/invitations
type CreateRequest struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "Invalid email: " + r.Email,
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Actor is the authenticated caller performing an operation
type Actor struct {
	UserID string
}

// ListRequest - GET /tenants/{tenantID}/invitations?search=&first=&max=
// Nil pointers mean the query parameter was absent.
type ListRequest struct {
	Search *string
	First  *int
	Max    *int
}

// ToFilter resolves defaults and rejects negative offsets or limits.
func (r ListRequest) ToFilter(defaultMax int) (ListFilter, error) {
	filter := ListFilter{First: 0, Max: defaultMax}
	if r.Search != nil {
		filter.Search = *r.Search
	}
	if r.First != nil {
		filter.First = *r.First
	}
	if r.Max != nil {
		filter.Max = *r.Max
	}
	if filter.First < 0 || filter.Max < 0 {
		return ListFilter{}, ErrInvalidPagination
	}
	return filter, nil
}

// InvitationResponse is the public representation of an invitation
type InvitationResponse struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	InvitedBy string   `json:"invited_by"`
	CreatedAt string   `json:"created_at"`
}

// CreatedResponse is returned with 201 Created alongside the Location header
type CreatedResponse struct {
	ID string `json:"id"`
}

func ToResponse(inv Invitation) InvitationResponse {
	roles := inv.Roles
	if roles == nil {
		roles = []string{}
	}
	return InvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Roles:     roles,
		InvitedBy: inv.InvitedBy,
		CreatedAt: inv.CreatedAt.UTC().Format(time.RFC3339),
	}
}
