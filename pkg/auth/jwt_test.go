package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestVerifyValidToken(t *testing.T) {
	id := Identity{UserID: uuid.New(), Email: "ana@clinica.com"}
	token, err := Sign(testSecret, id, time.Hour)
	require.NoError(t, err)

	got, err := NewVerifier(testSecret, 0).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestVerifyRejects(t *testing.T) {
	id := Identity{UserID: uuid.New(), Email: "ana@clinica.com"}
	v := NewVerifier(testSecret, 0)

	expired, err := Sign(testSecret, id, -time.Minute)
	require.NoError(t, err)
	wrongKey, err := Sign("other-secret", id, time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.UserID.String()},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.UserID.String(), ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"wrong key":    wrongKey,
		"no expiry":    noExpiry,
		"bad subject":  badSubject,
		"other method": hs512,
		"not a jwt":    "abc.def",
		"empty":        "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifyLeeway(t *testing.T) {
	id := Identity{UserID: uuid.New()}
	token, err := Sign(testSecret, id, -10*time.Second)
	require.NoError(t, err)

	_, err = NewVerifier(testSecret, time.Minute).Verify(token)
	assert.NoError(t, err)
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = BearerToken("bearer   xyz ")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	for _, h := range []string{"", "Bearer", "Bearer ", "Basic abc", "abc"} {
		_, err := BearerToken(h)
		assert.ErrorIs(t, err, ErrMissingToken, h)
	}
}
