package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired runs after jwtauth.Verifier. It checks the token type, loads
// the user and rejects tokens whose token_version is behind the stored one.
// The loaded user is put on the request context for the services.
func AuthRequired(authService auth.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			parsed, err := jwt.ClaimsFromMap(claims)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			u, err := authService.Authenticate(r.Context(), parsed)
			if err != nil {
				slog.Debug("Authentication rejected", "user_id", parsed.UserID, "error", err)
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(user.NewContext(r.Context(), u)))
		}
		return http.HandlerFunc(hfn)
	}
}
