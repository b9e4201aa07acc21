package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the persistence interface for user accounts
type UserRepository interface {
	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail retrieves a user by email (case-insensitive).
	// Returns shared.ErrNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail reports whether a user with the email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save persists a new user
	Save(ctx context.Context, user *User) error

	// Update persists changes to an existing user
	Update(ctx context.Context, user *User) error
}
