package account

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("username and password are required")
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrAuthFailure is what callers should match on; ErrNotFound and
	// ErrWrongPassword both wrap it so the two cases look the same outside.
	ErrAuthFailure   = errors.New("invalid username or password")
	ErrNotFound      = fmt.Errorf("%w: user not found", ErrAuthFailure)
	ErrWrongPassword = fmt.Errorf("%w: wrong password", ErrAuthFailure)
)

// User is a registered account.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Store persists credentials. Create must fail with ErrDuplicateUsername
// when the username is taken, and FindByUsername with ErrNotFound when
// there is no such user.
type Store interface {
	Create(ctx context.Context, username, passwordHash string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}
