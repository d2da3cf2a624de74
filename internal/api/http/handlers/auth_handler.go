package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-admin/internal/api/dto"
	"github.com/spec-kit/ticket-admin/internal/auth"
	"github.com/spec-kit/ticket-admin/internal/service"
	apperrors "github.com/spec-kit/ticket-admin/pkg/util"
)

// AuthHandler exposes login, session restore and logout.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, expiresAt, err := h.auth.Authenticate(c.UserContext(), req.Username, req.Password, req.Remember)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: dto.SessionUser{
			ID:       user.ID,
			Username: user.Username,
			FullName: user.FullName,
			Project:  user.Project,
			IsAdmin:  user.IsAdmin,
		},
	}})
}

// Session handles GET /auth/session: restores a session from the durable
// remember-me record without credentials.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	sess, token, expiresAt, err := h.auth.Restore(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: dto.SessionUser{
			ID:       sess.UserID,
			Username: sess.Username,
			FullName: sess.FullName,
			Project:  sess.Project,
			IsAdmin:  sess.IsAdmin,
		},
	}})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.auth.Logout(c.UserContext())
	return c.SendStatus(http.StatusNoContent)
}

func sessionOrUnauthorized(c *fiber.Ctx) (*auth.Session, error) {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return sess, nil
}
