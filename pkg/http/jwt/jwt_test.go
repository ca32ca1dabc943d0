package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "bf284d03-ba65-42d4-a9fe-0d2fbfe61060"

func TestGenAndParseToken(t *testing.T) {
	token, err := GenToken("INVESTOR", "inv-1", "deal-1", []byte(secret), "", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "INVESTOR", claims.Role)
	assert.Equal(t, "inv-1", claims.ActorID)
	assert.Equal(t, "deal-1", claims.DealID)
	assert.Equal(t, "bookbuild", claims.Issuer)
}

func TestParseToken_Failures(t *testing.T) {
	valid, err := GenToken("ISSUER", "iss-1", "", []byte(secret), "test", time.Hour)
	require.NoError(t, err)
	expired, err := GenToken("ISSUER", "iss-1", "", []byte(secret), "test", -time.Minute)
	require.NoError(t, err)
	noActor, err := GenToken("ISSUER", "", "", []byte(secret), "test", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		expired bool
	}{
		{name: "wrong secret", token: valid, secret: "other"},
		{name: "expired", token: expired, secret: secret, expired: true},
		{name: "garbage", token: "not.a.token", secret: secret},
		{name: "missing actor", token: noActor, secret: secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseToken(tt.token, tt.secret)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.Equal(t, tt.expired, err == jwt.ErrTokenExpired)
		})
	}
}
