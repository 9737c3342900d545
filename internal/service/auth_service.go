package service

import (
	"context"
	"errors"
	"time"

	"github.com/qdn-tickets/ticket-service/internal/auth"
	"github.com/qdn-tickets/ticket-service/internal/config"
)

var (
	// ErrInvalidCredentials is returned for a wrong operator password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginDisabled is returned when no operator password hash is configured.
	ErrLoginDisabled = errors.New("operator login disabled")
)

const operatorSubject = "operator"

// AuthService issues operator tokens.
type AuthService struct {
	passwordHash string
	tokenMgr     *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		passwordHash: cfg.OperatorPasswordHash,
		tokenMgr:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login checks the operator password and returns a signed token.
func (s *AuthService) Login(_ context.Context, password string) (string, time.Time, error) {
	if s.passwordHash == "" {
		return "", time.Time{}, ErrLoginDisabled
	}
	if err := auth.ComparePassword(s.passwordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}
	return s.tokenMgr.GenerateToken(operatorSubject, auth.RoleOperator)
}
