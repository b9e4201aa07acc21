package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sprayshop/backend/internal/domain/shared"
	"github.com/sprayshop/backend/internal/domain/shared/valueobject"
)

// Payment is a single payment applied to an invoice. Payments are
// append-only: once written they are never updated or deleted. The
// payment history of an invoice is the authoritative record that the
// invoice's paid amount is reconciled against.
type Payment struct {
	shared.BaseEntity
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paid_at"`
	Note      string          `json:"note,omitempty"`
}

// NewPayment creates a new payment record. Validation of the amount
// against the invoice balance happens in Invoice.ApplyPayment; this
// constructor only builds the record.
func NewPayment(invoiceID uuid.UUID, amount decimal.Decimal, paidAt time.Time, note string) *Payment {
	return &Payment{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  invoiceID,
		Amount:     amount,
		PaidAt:     paidAt,
		Note:       note,
	}
}

// GetAmountMoney returns the payment amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyGHS(p.Amount)
}
