package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sprayshop/backend/internal/domain/shared"
)

// InvoiceRepository defines the persistence interface for invoices
type InvoiceRepository interface {
	// FindByID retrieves an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByNumber retrieves an invoice by its invoice number
	FindByNumber(ctx context.Context, number string) (*Invoice, error)

	// FindByCustomerID retrieves all invoices for a customer, newest first
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*Invoice, error)

	// List retrieves invoices with filtering and pagination
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Invoice], error)

	// Save persists a new invoice
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithPayment persists the updated invoice and appends the
	// payment record in a single transaction. The invoice update is
	// conditional on the version the invoice was read at; if another
	// writer got there first, nothing is written and
	// shared.ErrConcurrencyConflict is returned.
	SaveWithPayment(ctx context.Context, invoice *Invoice, payment *Payment) error

	// CountByStatus returns the number of invoices per status
	CountByStatus(ctx context.Context) (map[InvoiceStatus]int64, error)

	// SumOutstanding returns the total remaining balance across all
	// unsettled invoices
	SumOutstanding(ctx context.Context) (decimal.Decimal, error)
}

// PaymentRepository defines the read-side interface for payment
// records. Payments are only ever written through
// InvoiceRepository.SaveWithPayment.
type PaymentRepository interface {
	// FindByInvoiceID retrieves all payments for an invoice, oldest first
	FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error)

	// SumByInvoiceID returns the sum of all payment amounts for an invoice
	SumByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
}
