package domain

import "time"

// User is an account that can sign in to the admin panel. Project is a
// free-text scoping tag: non-admin users only see tickets carrying their
// project. PasswordHash is the hex SHA-256 digest of the password and is
// never reversed.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	Project      string
	IsAdmin      bool
	CreatedAt    time.Time
}
