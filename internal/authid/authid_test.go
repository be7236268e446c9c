package authid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuer() Issuer {
	return Issuer{Secret: []byte("test-secret"), Name: "commute-matcher-test", ExpirationMinutes: 60}
}

func TestGenerateAndValidateToken(t *testing.T) {
	issuer := testIssuer()

	token, expiresAt, err := issuer.GenerateToken("user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	userID, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := testIssuer()
	token, _, err := issuer.GenerateToken("user-1")
	require.NoError(t, err)

	other := issuer
	other.Secret = []byte("different-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	issuer := testIssuer()
	issuer.ExpirationMinutes = -1

	token, _, err := issuer.GenerateToken("user-1")
	require.NoError(t, err)

	_, err = issuer.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Malformed(t *testing.T) {
	issuer := testIssuer()
	_, err := issuer.ValidateToken("not.a.token")
	assert.Error(t, err)
}
