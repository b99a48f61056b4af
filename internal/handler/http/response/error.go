package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/invitation"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch invitation.KindOf(err) {
	case invitation.KindValidation:
		BadRequest(w, err.Error(), nil)
	case invitation.KindConflict:
		Conflict(w, err.Error())
	case invitation.KindNotFound:
		NotFound(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
