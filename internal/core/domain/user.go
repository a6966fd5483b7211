package domain

import (
	"errors"
	"time"
)

// Role identifiers form a closed set. A persisted user always carries one of
// them; the repository never stores a zero role.
const (
	RoleAdmin = 1
	RoleUser  = 2
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrPictureNotFound    = errors.New("profile picture not found")
)

// User models a registered account. The password is stored only as a bcrypt
// hash and never serialises into responses.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       int       `json:"roleId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.RoleID == RoleAdmin
}

// KnownRole reports whether id belongs to the closed role set.
func KnownRole(id int) bool {
	return id == RoleAdmin || id == RoleUser
}
