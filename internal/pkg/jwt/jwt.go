package jwt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(userID string, email string, role string, tokenVersion int) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	return &JWTService{
		accessTokenExpiration: expiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, email string, role string, tokenVersion int) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"user_id":       userID,
		"email":         email,
		"role":          role,
		"token_version": tokenVersion,
		"type":          tokenTypeAccess,
		"exp":           expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ClaimsFromMap reads an access token's claims. Numbers decode as float64
// from JSON and are converted back.
func ClaimsFromMap(claims map[string]interface{}) (auth.Claims, error) {
	if tokenType, _ := claims["type"].(string); tokenType != tokenTypeAccess {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)

	var version int
	switch v := claims["token_version"].(type) {
	case float64:
		version = int(v)
	case int:
		version = v
	case int64:
		version = int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return auth.Claims{}, auth.ErrInvalidToken
		}
		version = int(n)
	default:
		return auth.Claims{}, auth.ErrInvalidToken
	}

	return auth.Claims{UserID: userID, Email: email, Role: role, TokenVersion: version}, nil
}
