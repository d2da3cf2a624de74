package dto

import (
	"time"

	"github.com/spec-kit/ticket-admin/internal/domain"
)

// UserRequest payload for create and update. Password may be empty on
// update to keep the current one.
type UserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Project  string `json:"project"`
	IsAdmin  bool   `json:"is_admin"`
}

// UserResponse is an account on the wire. The password hash never leaves
// the server.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Project   string    `json:"project"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// FromUser converts a domain user for the wire.
func FromUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Project:   u.Project,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// FromUsers converts a slice of users.
func FromUsers(users []domain.User) []UserResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, FromUser(&users[i]))
	}
	return items
}
