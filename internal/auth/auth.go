// Package auth manages librarian accounts and issues the access tokens that
// guard the write endpoints.
package auth

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("librarian not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Librarian is a staff account allowed to manage books and loans.
type Librarian struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
