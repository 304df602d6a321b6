package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	resolver user.PermissionResolver
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service, resolver user.PermissionResolver) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		resolver:       resolver,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(userData.ID, userData.Email, string(userData.Role), userData.TokenVersion)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		TokenType:            "Bearer",
	}, nil
}

// Authenticate implements auth.AuthService.
func (a *AuthServiceImpl) Authenticate(ctx context.Context, claims auth.Claims) (user.User, error) {
	userData, err := a.UserRepository.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, auth.ErrInvalidToken
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	if userData.TokenVersion != claims.TokenVersion {
		return user.User{}, auth.ErrSessionRevoked
	}

	return userData, nil
}

// LogoutAll implements auth.AuthService.
func (a *AuthServiceImpl) LogoutAll(ctx context.Context) error {
	actor, err := user.Actor(ctx)
	if err != nil {
		return err
	}

	if _, err := a.UserRepository.IncrementTokenVersion(ctx, actor.ID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (user.MeResponse, error) {
	actor, err := user.Actor(ctx)
	if err != nil {
		return user.MeResponse{}, err
	}

	matrix, err := a.resolver.Matrix(ctx, actor)
	if err != nil {
		return user.MeResponse{}, fmt.Errorf("failed to resolve permissions: %w", err)
	}

	return user.MeResponse{User: user.NewUserResponse(actor), Permissions: matrix}, nil
}
