package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qdn-tickets/ticket-service/internal/auth"
	"github.com/qdn-tickets/ticket-service/internal/config"
	"github.com/qdn-tickets/ticket-service/internal/service"
)

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	svc := service.NewAuthService(config.AuthConfig{
		JWTSecret:             "secret",
		AccessTokenTTLMinutes: 10,
		OperatorPasswordHash:  hash,
	})

	token, _, err := svc.Login(context.Background(), "correct horse")
	require.NoError(t, err)
	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, auth.RoleOperator, claims.Role)

	_, _, err = svc.Login(context.Background(), "battery staple")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_LoginDisabledWithoutHash(t *testing.T) {
	svc := service.NewAuthService(config.AuthConfig{JWTSecret: "secret"})

	_, _, err := svc.Login(context.Background(), "anything")
	require.ErrorIs(t, err, service.ErrLoginDisabled)
}
