package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", hashed)

	require.True(t, CheckPassword("correct horse", hashed))
	require.False(t, CheckPassword("wrong horse", hashed))
	require.False(t, CheckPassword("correct horse", "not-a-hash"))
}

func TestTokenIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	u := &User{Username: "ama", Role: RoleCashier}

	tok, err := issuer.Issue(u)
	require.NoError(t, err)

	claims, err := issuer.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, "ama", claims.Username)
	require.Equal(t, RoleCashier, claims.Role)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	tok, err := issuer.Issue(&User{Username: "ama", Role: RoleAdmin})
	require.NoError(t, err)

	other := NewTokenIssuer("secret-b", time.Hour)
	_, err = other.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiredRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	tok, err := issuer.Issue(&User{Username: "ama", Role: RoleAdmin})
	require.NoError(t, err)

	_, err = issuer.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbageRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	_, err := issuer.Parse("definitely.not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidRole(t *testing.T) {
	require.True(t, ValidRole(RoleAdmin))
	require.True(t, ValidRole(RoleCashier))
	require.True(t, ValidRole(RoleKitchen))
	require.False(t, ValidRole("superuser"))
	require.False(t, ValidRole(""))
}
