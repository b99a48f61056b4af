package validator

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

const mailtoPrefix = "mailto:"

// StripMailto removes an optional leading mailto: scheme.
func StripMailto(email string) string {
	return strings.TrimPrefix(email, mailtoPrefix)
}

// IsValidEmail reports whether email is a bare RFC 5322 addr-spec,
// optionally prefixed with mailto:. Quoted local parts are accepted.
// Display names, comments and surrounding whitespace are rejected.
func IsValidEmail(email string) bool {
	if IsEmpty(email) {
		return false
	}
	email = StripMailto(email)

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" {
		return false
	}
	return addr.Address == unquoteLocalPart(email)
}

// unquoteLocalPart rewrites a quoted local part the way net/mail reports it,
// without the quotes and escapes.
func unquoteLocalPart(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 2 || email[0] != '"' || email[at-1] != '"' {
		return email
	}

	var local strings.Builder
	quoted := email[1 : at-1]
	for i := 0; i < len(quoted); i++ {
		if quoted[i] == '\\' && i+1 < len(quoted) {
			i++
		}
		local.WriteByte(quoted[i])
	}
	return local.String() + email[at:]
}

// NormalizeEmail returns the uniqueness key for an address. The mailto:
// prefix is stripped before lower-casing, so mailto:A@B.com and a@b.com
// share one key.
func NormalizeEmail(email string) string {
	return strings.ToLower(StripMailto(email))
}

// IsValidUUID reports whether s is a canonical UUID string.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
