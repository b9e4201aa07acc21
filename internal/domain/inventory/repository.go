package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/sprayshop/backend/internal/domain/shared"
)

// StockItemRepository defines the persistence interface for stock items
type StockItemRepository interface {
	// FindByID retrieves a stock item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)

	// List retrieves stock items with filtering and pagination.
	// Filter.Search matches the name, Filter.Filters["category"]
	// restricts to a category, Filter.OrderBy accepts "name" or
	// "quantity".
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*StockItem], error)

	// FindLowStock retrieves items below their reorder threshold
	FindLowStock(ctx context.Context) ([]*StockItem, error)

	// Categories returns the distinct categories in use
	Categories(ctx context.Context) ([]string, error)

	// Save persists a new stock item
	Save(ctx context.Context, item *StockItem) error

	// Update persists changes to an existing stock item
	Update(ctx context.Context, item *StockItem) error

	// Delete removes a stock item
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of stock items
	Count(ctx context.Context) (int64, error)
}
