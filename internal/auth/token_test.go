package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belanjaaja/backend/internal/auth"
)

func TestTokenManager_SignAndVerify(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 24*time.Hour)

	identity := auth.Identity{UserID: 7, Email: "budi@example.com", Role: "user"}

	token, err := tm.Sign(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestTokenManager_Verify_WrongSecret(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 24*time.Hour)
	other := auth.NewTokenManager("other-secret", 24*time.Hour)

	token, err := tm.Sign(auth.Identity{UserID: 7, Email: "budi@example.com", Role: "user"})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_Verify_Expired(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Sign(auth.Identity{UserID: 7, Email: "budi@example.com", Role: "user"})
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_Verify_Garbage(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 24*time.Hour)

	_, err := tm.Verify("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
