package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-admin/internal/auth"
	"github.com/spec-kit/ticket-admin/internal/domain"
	"github.com/spec-kit/ticket-admin/internal/session"
	apperrors "github.com/spec-kit/ticket-admin/pkg/util"
)

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func newAuthFixture(t *testing.T, users *fakeUserStore) (*AuthService, *session.Store) {
	t.Helper()
	remember := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	tokens := auth.NewTokenManager("test-secret", 15)
	return NewAuthService(users, tokens, remember, zap.NewNop()), remember
}

func TestAuthenticateSuccess(t *testing.T) {
	users := &fakeUserStore{users: []domain.User{{
		ID:           1,
		Username:     "alice",
		PasswordHash: auth.HashPassword("s3cret"),
		FullName:     "Alice Nguyen",
		Project:      "Apollo",
		IsAdmin:      true,
	}}}
	svc, remember := newAuthFixture(t, users)

	user, token, _, err := svc.Authenticate(context.Background(), "alice", "s3cret", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.NotEmpty(t, token)

	// remember=false writes no durable record.
	assert.Nil(t, remember.Load())
}

func TestAuthenticateRemember(t *testing.T) {
	users := &fakeUserStore{users: []domain.User{{
		ID:           2,
		Username:     "bob",
		PasswordHash: auth.HashPassword("pw"),
		Project:      "Hermes",
	}}}
	svc, remember := newAuthFixture(t, users)

	_, _, _, err := svc.Authenticate(context.Background(), "bob", "pw", true)
	require.NoError(t, err)

	record := remember.Load()
	require.NotNil(t, record)
	assert.Equal(t, int64(2), record.UserID)
	assert.Equal(t, "bob", record.Username)
	assert.Equal(t, "Hermes", record.Project)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	users := &fakeUserStore{users: []domain.User{{
		ID:           1,
		Username:     "alice",
		PasswordHash: auth.HashPassword("s3cret"),
	}}}
	svc, _ := newAuthFixture(t, users)

	_, _, _, err := svc.Authenticate(context.Background(), "alice", "wrong", false)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, err))
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t, &fakeUserStore{})

	_, _, _, err := svc.Authenticate(context.Background(), "ghost", "pw", false)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, err))
}

func TestAuthenticateStoreFailureFailsClosed(t *testing.T) {
	svc, _ := newAuthFixture(t, &fakeUserStore{err: errors.New("connection refused")})

	// A transport failure is indistinguishable from bad credentials.
	_, _, _, err := svc.Authenticate(context.Background(), "alice", "s3cret", false)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, err))
}

func TestAuthenticateMissingFields(t *testing.T) {
	svc, _ := newAuthFixture(t, &fakeUserStore{})

	_, _, _, err := svc.Authenticate(context.Background(), "", "pw", false)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))

	_, _, _, err = svc.Authenticate(context.Background(), "alice", "", false)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
}

func TestRestoreFromRememberRecord(t *testing.T) {
	users := &fakeUserStore{users: []domain.User{{
		ID:           5,
		Username:     "carol",
		PasswordHash: auth.HashPassword("pw"),
		FullName:     "Carol Tran",
		Project:      "Apollo",
		IsAdmin:      true,
	}}}
	svc, _ := newAuthFixture(t, users)

	_, _, _, err := svc.Authenticate(context.Background(), "carol", "pw", true)
	require.NoError(t, err)

	sess, token, _, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, auth.Session{
		UserID:   5,
		Username: "carol",
		FullName: "Carol Tran",
		Project:  "Apollo",
		IsAdmin:  true,
	}, sess)
}

func TestRestoreWithoutRecord(t *testing.T) {
	svc, _ := newAuthFixture(t, &fakeUserStore{})

	_, _, _, err := svc.Restore(context.Background())
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, err))
}

func TestLogoutRemovesRecord(t *testing.T) {
	users := &fakeUserStore{users: []domain.User{{
		ID:           1,
		Username:     "alice",
		PasswordHash: auth.HashPassword("pw"),
	}}}
	svc, remember := newAuthFixture(t, users)

	_, _, _, err := svc.Authenticate(context.Background(), "alice", "pw", true)
	require.NoError(t, err)
	require.NotNil(t, remember.Load())

	svc.Logout(context.Background())
	assert.Nil(t, remember.Load())
}
