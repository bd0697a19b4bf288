package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.Error(t, err)
}

func TestMintAndValidate(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewJWTService(JWTConfig{
		Secret: "test-secret",
		Issuer: "zenbild",
		Clock:  func() time.Time { return current },
	})
	require.NoError(t, err)

	token, err := svc.Mint("user-1", false)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.False(t, claims.Guest)
	require.Equal(t, current.Add(DefaultSessionTTL).Unix(), claims.ExpiresAt.Unix())
	require.Equal(t, current.Unix(), claims.IssuedAt.Unix())
}

func TestMintRequiresUserID(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "test-secret"})
	require.NoError(t, err)

	_, err = svc.Mint("", false)
	require.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret",
		SessionTTL: time.Hour,
		Clock:      func() time.Time { return current },
	})
	require.NoError(t, err)

	token, err := svc.Mint("user-1", true)
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)

	_, err = svc.Validate(token)
	require.Error(t, err)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	minter, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "other"})
	require.NoError(t, err)
	verifier, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "zenbild"})
	require.NoError(t, err)

	token, err := minter.Mint("user-1", false)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.Error(t, err)
}

func TestGuestClaimRoundTrip(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "test-secret"})
	require.NoError(t, err)

	token, err := svc.Mint("guest-7", true)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.True(t, claims.Guest)
}
