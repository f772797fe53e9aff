package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/tokens"
)

var testSecret = []byte("test-jwt-secret")

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{Repo: newTestRepo(t), JWTSecret: testSecret, TokenTTL: time.Hour, PasswordCost: bcrypt.MinCost}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, transport.RegisterRequest{Username: "ann", Password: "s3cret", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.IsSuperuser)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	claims, err := tokens.AccessClaimsFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, tokens.RoleCustomer, claims.Role)
	assert.Equal(t, "ann", claims.Username)

	res, err := svc.Login(ctx, "ann", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, tokens.RoleCustomer, res.Role)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, "ann", "wrong")
	requireKind(t, err, ErrValidation, "Invalid credentials")

	_, err = svc.Login(ctx, "nobody", "s3cret")
	requireKind(t, err, ErrValidation, "Invalid credentials")

	_, _, err = svc.Register(ctx, transport.RegisterRequest{Username: "ann", Password: "x"})
	requireKind(t, err, ErrValidation, "")
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  transport.RegisterRequest
	}{
		{name: "empty username", req: transport.RegisterRequest{Password: "secret"}},
		{name: "empty password", req: transport.RegisterRequest{Username: "user"}},
		{name: "password too long", req: transport.RegisterRequest{Username: "user", Password: strings.Repeat("p", 73)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.req)
			requireKind(t, err, ErrValidation, "")
		})
	}
}

func TestAuthService_SeedAdmin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedAdmin(ctx, "", ""))
	require.NoError(t, svc.SeedAdmin(ctx, "root", "toor"))
	require.NoError(t, svc.SeedAdmin(ctx, "root", "other"))

	res, err := svc.Login(ctx, "root", "toor")
	require.NoError(t, err)
	assert.Equal(t, tokens.RoleAdmin, res.Role)
}

func TestAuthService_LoginUpgradesPasswordCost(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, transport.RegisterRequest{Username: "ann", Password: "s3cret"})
	require.NoError(t, err)

	svc.PasswordCost = bcrypt.MinCost + 1
	_, err = svc.Login(ctx, "ann", "s3cret")
	require.NoError(t, err)

	user, err := svc.Repo.GetUserByUsername(ctx, "ann")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(user.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)

	_, err = svc.Login(ctx, "ann", "s3cret")
	require.NoError(t, err)
}
