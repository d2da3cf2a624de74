package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-admin/internal/auth"
	"github.com/spec-kit/ticket-admin/internal/domain"
	"github.com/spec-kit/ticket-admin/internal/store"
	apperrors "github.com/spec-kit/ticket-admin/pkg/util"
)

// UserService manages accounts. All operations are admin-only; the handlers
// enforce that before calling in.
type UserService struct {
	users  store.UserStore
	logger *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users store.UserStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// UserInput describes the account form fields. Password is required on
// create; on update an empty password keeps the stored digest.
type UserInput struct {
	Username string
	Password string
	FullName string
	Project  string
	IsAdmin  bool
}

// List returns all accounts ordered by id.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Create validates the input, rejects duplicate usernames before any store
// mutation, and inserts the account with a digested password.
func (s *UserService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	if err := validateUserInput(input, true); err != nil {
		return nil, err
	}

	exists, err := s.users.UsernameExists(ctx, input.Username, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("username already exists", map[string]any{"username": input.Username})
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: auth.HashPassword(input.Password),
		FullName:     input.FullName,
		Project:      input.Project,
		IsAdmin:      input.IsAdmin,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update edits an account. The uniqueness check excludes the account's own
// id so renaming a user to its current username is not a collision. An empty
// password leaves the stored digest untouched.
func (s *UserService) Update(ctx context.Context, id int64, input UserInput) (*domain.User, error) {
	if err := validateUserInput(input, false); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}

	exists, err := s.users.UsernameExists(ctx, input.Username, &id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("username already exists", map[string]any{"username": input.Username})
	}

	user.Username = input.Username
	user.FullName = input.FullName
	user.Project = input.Project
	user.IsAdmin = input.IsAdmin
	if input.Password != "" {
		user.PasswordHash = auth.HashPassword(input.Password)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an account. Deleting your own account is rejected.
// Tickets created by the account are kept; the store nulls their created_by
// reference instead of cascading.
func (s *UserService) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return err
	}
	s.logger.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

func validateUserInput(input UserInput, requirePassword bool) error {
	missing := []string{}
	if strings.TrimSpace(input.Username) == "" {
		missing = append(missing, "username")
	}
	if requirePassword && input.Password == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(input.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if strings.TrimSpace(input.Project) == "" {
		missing = append(missing, "project")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	return nil
}
