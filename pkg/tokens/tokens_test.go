package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTripKeepsKind(t *testing.T) {
	t.Parallel()

	secret := []byte("test-jwt-secret")
	exp := time.Now().Add(AccessTTL).UTC()

	tok, err := SignAccessToken("admin", "7", "root", exp, secret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Kind)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "root", claims.Name)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := SignAccessToken("customer", "1", "a@b.c", time.Now().Add(time.Minute), []byte("one"))
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, []byte("two"))
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("test-jwt-secret")
	tok, err := SignAccessToken("customer", "1", "a@b.c", time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, secret)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("test-refresh-secret")
	tok, err := SignRefreshToken("customer", "3", "jti-1", time.Now().Add(RefreshTTL), secret)
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "customer", claims.Kind)
	assert.Equal(t, "3", claims.Subject)
	assert.Equal(t, "jti-1", claims.ID)
}
