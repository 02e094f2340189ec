package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := Generate("secret", "u1", "s1", "staff", "suplementos-api", 5)
	require.NoError(t, err)

	claims, err := Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "s1", claims.StoreID)
	assert.Equal(t, "staff", claims.Role)
	assert.Equal(t, "suplementos-api", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate("secret", "u1", "", "admin", "x", 5)
	require.NoError(t, err)

	_, err = Parse("otro", token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expirado(t *testing.T) {
	token, err := Generate("secret", "u1", "", "admin", "x", -1)
	require.NoError(t, err)

	_, err = Parse("secret", token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "u1", "", "admin", "x", 5)
	require.Error(t, err)
}
