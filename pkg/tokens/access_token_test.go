package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func TestSignAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).UTC()
	tok, err := SignAccessToken("7", "alice", RoleAdmin, exp, testSecret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	expired, err := SignAccessToken("1", "bob", RoleCustomer, time.Now().Add(-time.Minute), testSecret)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(expired, testSecret)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))

	good, err := SignAccessToken("1", "bob", RoleCustomer, time.Now().Add(time.Minute), testSecret)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(good, []byte("other-secret"))
	require.Error(t, err)

	_, err = AccessClaimsFromToken("not-a-jwt", testSecret)
	require.Error(t, err)
}

func TestRoleFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RoleAdmin, RoleFor(true))
	assert.Equal(t, RoleCustomer, RoleFor(false))
}
