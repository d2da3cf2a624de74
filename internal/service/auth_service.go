package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-admin/internal/auth"
	"github.com/spec-kit/ticket-admin/internal/domain"
	"github.com/spec-kit/ticket-admin/internal/session"
	"github.com/spec-kit/ticket-admin/internal/store"
	apperrors "github.com/spec-kit/ticket-admin/pkg/util"
)

// AuthService coordinates login, session restoration and logout.
type AuthService struct {
	users    store.UserStore
	tokens   *auth.TokenManager
	remember *session.Store
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(users store.UserStore, tokens *auth.TokenManager, remember *session.Store, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, remember: remember, logger: logger}
}

// Authenticate verifies credentials with an equality lookup on username and
// password digest. Every failure mode, wrong credentials or an unreachable
// store alike, degrades to an unauthorized error: the gate fails closed and never
// reveals which part failed. When remember is set the durable remember-me
// record is written; a write failure only loses the convenience, not the
// login.
func (s *AuthService) Authenticate(ctx context.Context, username, password string, remember bool) (*domain.User, string, time.Time, error) {
	if username == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("username and password required", nil)
	}

	digest := auth.HashPassword(password)
	user, err := s.users.GetByCredentials(ctx, username, digest)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("credential lookup failed", zap.Error(err))
		}
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(auth.SessionFromUser(user))
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	if remember {
		if err := s.remember.Save(user); err != nil {
			s.logger.Warn("failed to persist remember-me record", zap.Error(err))
		}
	}
	return user, token, expiresAt, nil
}

// Restore rebuilds a session from the durable remember-me record. The
// record is trusted verbatim: its fields become the session without a store
// round trip. Absent or expired records leave the caller unauthenticated.
func (s *AuthService) Restore(_ context.Context) (auth.Session, string, time.Time, error) {
	record := s.remember.Load()
	if record == nil {
		return auth.Session{}, "", time.Time{}, apperrors.NewUnauthorized("no session")
	}

	sess := auth.Session{
		UserID:   record.UserID,
		Username: record.Username,
		FullName: record.FullName,
		Project:  record.Project,
		IsAdmin:  record.IsAdmin,
	}
	token, expiresAt, err := s.tokens.GenerateToken(sess)
	if err != nil {
		return auth.Session{}, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return sess, token, expiresAt, nil
}

// Logout removes the durable remember-me record, best effort.
func (s *AuthService) Logout(_ context.Context) {
	s.remember.Remove()
}
