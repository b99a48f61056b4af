package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/handler/http/response"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

// RequireTenantAdmin allows platform admins and administrators of the
// tenant named by the tenantID URL parameter.
func RequireTenantAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		if admin, ok := claims["is_admin"].(bool); ok && admin {
			next.ServeHTTP(w, r)
			return
		}

		tenantID := chi.URLParam(r, "tenantID")
		if !validator.IsInSlice(tenantID, adminTenants(claims)) {
			response.Forbidden(w, "Tenant admin privilege required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// adminTenants reads the admin_tenants claim, which decodes as []interface{}
func adminTenants(claims map[string]interface{}) []string {
	switch v := claims["admin_tenants"].(type) {
	case []string:
		return v
	case []interface{}:
		tenants := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				tenants = append(tenants, s)
			}
		}
		return tenants
	default:
		return nil
	}
}
