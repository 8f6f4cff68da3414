package auth

import (
	"strings"
	"testing"
	"time"

	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(config.JWTConfig{
		Secret:     "test-secret-that-is-long-enough-123456",
		Expiration: time.Hour,
		Issuer:     "sublease-test",
	})
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuer_RequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer(config.JWTConfig{})
	require.Error(t, err)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := newIssuer(t)

	token, expiresAt, err := issuer.Issue("user-1", "a@example.com", "user")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "a@example.com", claims.Email)
	require.Equal(t, "user", claims.Role)
	require.NotEmpty(t, claims.ID)
}

func TestTokenIssuer_Verify(t *testing.T) {
	issuer := newIssuer(t)
	valid, _, err := issuer.Issue("user-1", "a@example.com", "user")
	require.NoError(t, err)

	expired := newIssuer(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Issue("user-1", "a@example.com", "user")
	require.NoError(t, err)

	other, err := NewTokenIssuer(config.JWTConfig{Secret: "a-completely-different-secret-value!!", Issuer: "sublease-test"})
	require.NoError(t, err)
	forged, _, err := other.Issue("user-1", "a@example.com", "admin")
	require.NoError(t, err)

	wrongIssuer, err := NewTokenIssuer(config.JWTConfig{Secret: "test-secret-that-is-long-enough-123456", Issuer: "someone-else"})
	require.NoError(t, err)
	foreign, _, err := wrongIssuer.Issue("user-1", "a@example.com", "user")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid", token: valid},
		{name: "expired", token: expiredToken, wantErr: true},
		{name: "wrong_secret", token: forged, wantErr: true},
		{name: "wrong_issuer", token: foreign, wantErr: true},
		{name: "alg_none", token: unsigned, wantErr: true},
		{name: "garbage", token: "not.a.token", wantErr: true},
		{name: "empty", token: "", wantErr: true},
		{name: "tampered", token: valid[:strings.LastIndex(valid, ".")] + ".AAAA", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := issuer.Verify(tc.token)
			if tc.wantErr {
				require.ErrorIs(t, err, biddingerrors.ErrUnauthenticated)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPasswords(t *testing.T) {
	_, err := HashPassword("short")
	require.ErrorIs(t, err, biddingerrors.ErrValidation)

	_, err = HashPassword(strings.Repeat("x", 73))
	require.ErrorIs(t, err, biddingerrors.ErrValidation)

	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery", hash)

	require.NoError(t, CheckPassword(hash, "correct horse battery"))
	require.ErrorIs(t, CheckPassword(hash, "wrong password"), biddingerrors.ErrInvalidCredential)
	require.ErrorIs(t, CheckPassword("not-a-hash", "whatever1"), biddingerrors.ErrInvalidCredential)
}
