package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sprayshop/backend/internal/domain/partner"
	"github.com/sprayshop/backend/internal/domain/shared"
)

var customerSortColumns = map[string]string{
	"name":        "name",
	"total_spent": "total_spent",
	"last_visit":  "last_visit",
	"created_at":  "created_at",
}

// GormCustomerRepository implements partner.CustomerRepository with gorm.
// Customers carry their own column tags, so the domain struct is persisted
// directly without a separate model type.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new customer repository.
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID retrieves a customer by ID.
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

// FindByName retrieves a customer by exact name, case-insensitive.
func (r *GormCustomerRepository) FindByName(ctx context.Context, name string) (*partner.Customer, error) {
	var customer partner.Customer
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by name: %w", err)
	}
	return &customer, nil
}

// List retrieves customers with filtering and pagination.
func (r *GormCustomerRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*partner.Customer], error) {
	query := r.db.WithContext(ctx).Model(&partner.Customer{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	query = applySort(query, filter.OrderBy, filter.OrderDir, "name ASC", customerSortColumns)

	var customers []*partner.Customer
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Offset(offset).Limit(filter.PageSize).Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	page := shared.NewPaginated(customers, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save persists a new customer.
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

// Update persists changes to an existing customer.
func (r *GormCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	result := r.db.WithContext(ctx).
		Model(&partner.Customer{}).
		Where("id = ? AND version = ?", customer.ID, customer.Version-1).
		Updates(map[string]any{
			"name":        customer.Name,
			"email":       customer.Email,
			"phone":       customer.Phone,
			"total_spent": customer.TotalSpent,
			"last_visit":  customer.LastVisit,
			"version":     customer.Version,
			"updated_at":  customer.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a customer.
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&partner.Customer{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total number of customers.
func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&partner.Customer{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}
