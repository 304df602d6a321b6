package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/role"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
)

// RequirePermission checks the acting user's resolved permission for one
// module. It must run after AuthRequired.
func RequirePermission(resolver user.PermissionResolver, module role.Module, access role.Access) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := user.FromContext(r.Context())
			if !ok {
				response.HandleError(w, user.ErrUnauthenticated)
				return
			}

			allowed, err := resolver.GetPermission(r.Context(), u, module, access)
			if err != nil {
				slog.Error("Permission lookup failed", "module", module, "role", u.Role, "error", err)
				response.HandleError(w, err)
				return
			}
			if !allowed {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s:%s'", module, access))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
