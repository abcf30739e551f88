package streamtoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_Issue(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour).(*issuer)
	fixed := time.Now().Truncate(time.Second)
	iss.now = func() time.Time { return fixed }

	signed, err := iss.Issue("u1", "Alice")
	require.NoError(t, err)

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(signed, claims, func(tok *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, tok.Valid)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, fixed.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixed.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestIssuer_WrongSecretRejected(t *testing.T) {
	signed, err := NewIssuer("right", time.Hour).Issue("u1", "Alice")
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte("wrong"), nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestIssuer_MissingSecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour).Issue("u1", "Alice")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestIssuer_ImplementsIIssuer(t *testing.T) {
	assert.Implements(t, (*IIssuer)(nil), &issuer{})
}
