package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/sprayshop/backend/internal/domain/shared"
)

// CustomerRepository defines the persistence interface for customers
type CustomerRepository interface {
	// FindByID retrieves a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByName retrieves a customer by exact name (case-insensitive).
	// Returns shared.ErrNotFound when no customer matches.
	FindByName(ctx context.Context, name string) (*Customer, error)

	// List retrieves customers with filtering and pagination
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Customer], error)

	// Save persists a new customer
	Save(ctx context.Context, customer *Customer) error

	// Update persists changes to an existing customer
	Update(ctx context.Context, customer *Customer) error

	// Delete removes a customer
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of customers
	Count(ctx context.Context) (int64, error)
}
