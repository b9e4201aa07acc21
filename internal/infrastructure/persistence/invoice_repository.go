package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sprayshop/backend/internal/domain/billing"
	"github.com/sprayshop/backend/internal/domain/shared"
	"github.com/sprayshop/backend/internal/infrastructure/persistence/models"
)

var invoiceSortColumns = map[string]string{
	"issued_at":      "issued_at",
	"invoice_number": "invoice_number",
	"customer_name":  "customer_name",
	"total_amount":   "total_amount",
	"status":         "status",
	"created_at":     "created_at",
}

// GormInvoiceRepository implements billing.InvoiceRepository with gorm.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new invoice repository.
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID retrieves an invoice by its ID.
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByNumber retrieves an invoice by its invoice number.
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).Where("invoice_number = ?", number).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by number: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByCustomerID retrieves all invoices for a customer, newest first.
func (r *GormInvoiceRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("issued_at DESC").
		Find(&invoiceModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find invoices for customer: %w", err)
	}

	invoices := make([]*billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// List retrieves invoices with filtering and pagination.
func (r *GormInvoiceRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*billing.Invoice], error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID, ok := filter.Filters["customer_id"].(uuid.UUID); ok {
		query = query.Where("customer_id = ?", customerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	query = applySort(query, filter.OrderBy, filter.OrderDir, "issued_at DESC, created_at DESC", invoiceSortColumns)

	var invoiceModels []models.InvoiceModel
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Offset(offset).Limit(filter.PageSize).Find(&invoiceModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	invoices := make([]*billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	page := shared.NewPaginated(invoices, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save persists a new invoice.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

// SaveWithPayment writes the updated invoice and the new payment row in one
// transaction. The invoice UPDATE carries a version predicate so a write that
// raced another payment touches zero rows and the whole transaction rolls
// back with shared.ErrConcurrencyConflict.
func (r *GormInvoiceRepository) SaveWithPayment(ctx context.Context, invoice *billing.Invoice, payment *billing.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.InvoiceModelFromDomain(invoice)
		result := tx.Model(&models.InvoiceModel{}).
			Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
			Updates(map[string]any{
				"paid_amount": model.PaidAmount,
				"status":      model.Status,
				"settled_at":  model.SettledAt,
				"version":     model.Version,
				"updated_at":  model.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update invoice: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		paymentModel := models.PaymentModelFromDomain(payment)
		if err := tx.Create(paymentModel).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		return nil
	})
}

// CountByStatus returns the number of invoices per status.
func (r *GormInvoiceRepository) CountByStatus(ctx context.Context) (map[billing.InvoiceStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices by status: %w", err)
	}

	counts := make(map[billing.InvoiceStatus]int64, len(rows))
	for _, row := range rows {
		counts[billing.InvoiceStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// SumOutstanding returns the total remaining balance across all unsettled
// invoices.
func (r *GormInvoiceRepository) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Outstanding decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COALESCE(SUM(total_amount - paid_amount), 0) as outstanding").
		Where("status <> ?", billing.InvoiceStatusPaid.String()).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum outstanding balances: %w", err)
	}
	return result.Outstanding, nil
}
