package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sprayshop/backend/internal/domain/shared"
	"github.com/sprayshop/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the derived payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "Pending"        // No payments recorded
	InvoiceStatusPartiallyPaid InvoiceStatus = "Partially Paid" // 0 < paid < total
	InvoiceStatusPaid          InvoiceStatus = "Paid"           // paid >= total
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartiallyPaid, InvoiceStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Rank returns the position of the status in the payment progression.
// Used to assert that status only ever moves forward.
func (s InvoiceStatus) Rank() int {
	switch s {
	case InvoiceStatusPartiallyPaid:
		return 1
	case InvoiceStatusPaid:
		return 2
	default:
		return 0
	}
}

// CanAcceptPayment returns true if payments can still be applied
func (s InvoiceStatus) CanAcceptPayment() bool {
	return s != InvoiceStatusPaid
}

// ServiceLine is a single service performed on the vehicle, with its
// agreed price. Lines are immutable once the invoice is created.
type ServiceLine struct {
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// ServiceLines is a slice of ServiceLine that implements GORM
// Scanner/Valuer for JSONB storage
type ServiceLines []ServiceLine

// Value implements driver.Valuer interface for GORM to store as JSONB
func (s ServiceLines) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (s *ServiceLines) Scan(value interface{}) error {
	if value == nil {
		*s = ServiceLines{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ServiceLines: unsupported type")
	}

	if len(bytes) == 0 {
		*s = ServiceLines{}
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Invoice is the aggregate root of the invoice ledger. It records the
// services performed for a customer, the amount collected so far, and
// the derived payment status. Individual payments live in their own
// append-only Payment records keyed by InvoiceID.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	IssuedAt      time.Time       `json:"issued_at"`
	ServiceLines  ServiceLines    `json:"service_lines"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Status        InvoiceStatus   `json:"status"`
	SettledAt     *time.Time      `json:"settled_at"` // When fully paid
}

// NewInvoice creates a new invoice for a customer. The total is always
// computed from the service lines; callers cannot set it directly.
// Zero-priced lines are allowed (e.g. goodwill touch-ups), but prices
// cannot be negative.
func NewInvoice(
	invoiceNumber string,
	customerID uuid.UUID,
	customerName string,
	issuedAt time.Time,
	lines ServiceLines,
) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_SERVICE_LINES", "Invoice must have at least one service line")
	}
	for i, line := range lines {
		if line.Description == "" {
			return nil, shared.NewDomainError("INVALID_SERVICE_LINES", fmt.Sprintf("Service line %d has an empty description", i+1))
		}
		if line.Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_SERVICE_LINES", fmt.Sprintf("Service line %d has a negative price", i+1))
		}
	}
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	total := ComputeInvoiceTotal(lines)

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		IssuedAt:          issuedAt,
		ServiceLines:      lines,
		TotalAmount:       total,
		PaidAmount:        decimal.Zero,
		Status:            DeriveStatus(total, decimal.Zero),
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// ApplyPayment validates and applies a payment against the invoice,
// returning the created Payment record. The invoice's paid amount and
// status advance per the ledger rules; the caller is responsible for
// persisting the invoice and payment atomically.
func (inv *Invoice) ApplyPayment(amount valueobject.Money, paidAt time.Time, note string) (*Payment, error) {
	if !inv.Status.CanAcceptPayment() {
		return nil, NewExceedsRemainingBalanceError(inv.Remaining())
	}

	transition, err := ValidatePayment(inv.TotalAmount, inv.PaidAmount, amount.Amount())
	if err != nil {
		return nil, err
	}

	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	payment := NewPayment(inv.ID, amount.Amount(), paidAt, note)

	previousStatus := inv.Status
	inv.PaidAmount = transition.NewPaidAmount
	inv.Status = transition.NewStatus

	if inv.Status == InvoiceStatusPaid {
		settled := time.Now()
		inv.SettledAt = &settled
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewPaymentRecordedEvent(inv, payment, previousStatus))
	if inv.Status == InvoiceStatusPaid {
		inv.AddDomainEvent(NewInvoiceSettledEvent(inv))
	}

	return payment, nil
}

// Remaining returns the outstanding balance
func (inv *Invoice) Remaining() decimal.Decimal {
	return ComputeRemaining(inv.TotalAmount, inv.PaidAmount)
}

// GetTotalAmountMoney returns the total as Money
func (inv *Invoice) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyGHS(inv.TotalAmount)
}

// GetPaidAmountMoney returns the paid amount as Money
func (inv *Invoice) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoneyGHS(inv.PaidAmount)
}

// GetRemainingMoney returns the outstanding balance as Money
func (inv *Invoice) GetRemainingMoney() valueobject.Money {
	return valueobject.NewMoneyGHS(inv.Remaining())
}

// IsPending returns true if no payment has been recorded
func (inv *Invoice) IsPending() bool {
	return inv.Status == InvoiceStatusPending
}

// IsPartiallyPaid returns true if the invoice has an outstanding balance
// with at least one payment recorded
func (inv *Invoice) IsPartiallyPaid() bool {
	return inv.Status == InvoiceStatusPartiallyPaid
}

// IsPaid returns true if the invoice is fully settled
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}

// Reconcile verifies that the sum of the given payment records equals
// the invoice's stored paid amount. A mismatch means the ledger and the
// payment history have diverged and the invoice needs investigation.
func (inv *Invoice) Reconcile(payments []*Payment) error {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	if !sum.Equal(inv.PaidAmount) {
		return shared.NewDomainError("RECONCILIATION_MISMATCH",
			fmt.Sprintf("Payment records sum to %s but invoice %s has paid amount %s",
				sum.StringFixed(2), inv.InvoiceNumber, inv.PaidAmount.StringFixed(2)))
	}
	return nil
}
