package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sprayshop/backend/internal/domain/inventory"
	"github.com/sprayshop/backend/internal/domain/shared"
)

var stockItemSortColumns = map[string]string{
	"name":     "name",
	"quantity": "quantity",
}

// GormStockItemRepository implements inventory.StockItemRepository with gorm.
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new stock item repository.
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByID retrieves a stock item by ID.
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find stock item: %w", err)
	}
	return &item, nil
}

// List retrieves stock items with filtering and pagination.
func (r *GormStockItemRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*inventory.StockItem], error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockItem{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if category, ok := filter.Filters["category"].(string); ok && category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count stock items: %w", err)
	}

	query = applySort(query, filter.OrderBy, filter.OrderDir, "name ASC", stockItemSortColumns)

	var items []*inventory.StockItem
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Offset(offset).Limit(filter.PageSize).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock items: %w", err)
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindLowStock retrieves items below their reorder threshold.
// Items with no threshold configured are never reported.
func (r *GormStockItemRepository) FindLowStock(ctx context.Context) ([]*inventory.StockItem, error) {
	var items []*inventory.StockItem
	err := r.db.WithContext(ctx).
		Where("threshold > 0 AND quantity < threshold").
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find low stock items: %w", err)
	}
	return items, nil
}

// Categories returns the distinct categories in use.
func (r *GormStockItemRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&inventory.StockItem{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Save persists a new stock item.
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to save stock item: %w", err)
	}
	return nil
}

// Update persists changes to an existing stock item.
func (r *GormStockItemRepository) Update(ctx context.Context, item *inventory.StockItem) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.StockItem{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]any{
			"name":       item.Name,
			"quantity":   item.Quantity,
			"unit":       item.Unit,
			"category":   item.Category,
			"threshold":  item.Threshold,
			"version":    item.Version,
			"updated_at": item.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update stock item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a stock item.
func (r *GormStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&inventory.StockItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete stock item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total number of stock items.
func (r *GormStockItemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.StockItem{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count stock items: %w", err)
	}
	return count, nil
}
