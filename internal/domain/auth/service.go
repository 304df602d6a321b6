package auth

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// Authenticate loads the user behind verified token claims and rejects
	// tokens issued before the user's last revocation.
	Authenticate(ctx context.Context, claims Claims) (user.User, error)
	// LogoutAll revokes every token of the acting user.
	LogoutAll(ctx context.Context) error
	Me(ctx context.Context) (user.MeResponse, error)
}
