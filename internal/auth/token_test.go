package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-admin/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 5)
	sess := Session{
		UserID:   7,
		Username: "alice",
		FullName: "Alice Nguyen",
		Project:  "Apollo",
		IsAdmin:  true,
	}

	token, expiresAt, err := tm.GenerateToken(sess)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "Alice Nguyen", claims.FullName)
	assert.Equal(t, "Apollo", claims.Project)
	assert.True(t, claims.IsAdmin)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", 5)
	other := NewTokenManager("secret-b", 5)

	token, _, err := tm.GenerateToken(Session{UserID: 1, Username: "bob"})
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 5)
	_, err := tm.ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestSessionFromUser(t *testing.T) {
	user := &domain.User{
		ID:       3,
		Username: "carol",
		FullName: "Carol Tran",
		Project:  "Hermes",
		IsAdmin:  false,
	}

	sess := SessionFromUser(user)
	assert.Equal(t, Session{
		UserID:   3,
		Username: "carol",
		FullName: "Carol Tran",
		Project:  "Hermes",
	}, sess)
}
