package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
