package domain

import (
	"context"
	"errors"
)

// ErrDuplicateEmail is returned by UserRepository.Create when the users
// table unique constraint on email rejects the insert. The constraint is
// the arbiter for concurrent signups with the same address; the losing
// request must surface this error, never a crash.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only, never on SQL or pgx
// directly.
type UserRepository interface {
	// GetByEmail returns the user matching the given (already
	// normalized) email. Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*UserRow, error)

	// GetByID returns the user with the given id.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id int) (*UserRow, error)

	// Create inserts a new user and returns the stored row. Returns
	// ErrDuplicateEmail when the email unique constraint rejects the
	// insert.
	Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*UserRow, error)
}
