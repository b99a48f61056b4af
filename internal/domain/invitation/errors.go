package invitation

import (
	"errors"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/tenant"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/validator"
)

var (
	ErrInvitationNotFound      = errors.New("invitation not found")
	ErrInvitationAlreadyExists = errors.New("invitation already exists")
	ErrAlreadyMember           = errors.New("already a member of this tenant")
	ErrInvalidPagination       = errors.New("first and max must not be negative")
)

// Kind classifies an error for the transport layer
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// KindOf reports the kind of err. Anything unrecognised, including
// collaborator failures, is KindInternal.
func KindOf(err error) Kind {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &validationErrs), errors.Is(err, ErrInvalidPagination):
		return KindValidation
	case errors.Is(err, ErrInvitationAlreadyExists), errors.Is(err, ErrAlreadyMember):
		return KindConflict
	case errors.Is(err, ErrInvitationNotFound), errors.Is(err, tenant.ErrTenantNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
