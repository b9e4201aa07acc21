package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sprayshop/backend/internal/domain/billing"
)

// ServiceLineRequest is one line of work on a new invoice. A zero price
// is allowed for goodwill work.
type ServiceLineRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Price       decimal.Decimal `json:"price" binding:"gte=0"`
}

// CreateInvoiceRequest is the input for creating an invoice. The customer
// is matched by name and created on the fly when unknown.
type CreateInvoiceRequest struct {
	CustomerName string               `json:"customer_name" binding:"required,max=255"`
	IssuedAt     *time.Time           `json:"issued_at"`
	Lines        []ServiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// RecordPaymentRequest is the input for recording a partial payment.
// Amount bounds are enforced by the ledger so violations come back with
// the ledger's own error codes, not a generic validation failure.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	PaidAt *time.Time      `json:"paid_at"`
	Note   string          `json:"note" binding:"max=500"`
}

// InvoiceListFilter carries list query parameters.
type InvoiceListFilter struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir"`
}

// ServiceLineResponse is the API representation of a service line.
type ServiceLineResponse struct {
	Description string `json:"description"`
	Price       string `json:"price"`
}

// InvoiceResponse is the API representation of an invoice.
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	IssuedAt      time.Time             `json:"issued_at"`
	Lines         []ServiceLineResponse `json:"lines"`
	Total         string                `json:"total"`
	PaidAmount    string                `json:"paid_amount"`
	Remaining     string                `json:"remaining"`
	Status        string                `json:"status"`
	SettledAt     *time.Time            `json:"settled_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// PaymentResponse is the API representation of a recorded payment.
type PaymentResponse struct {
	ID        uuid.UUID `json:"id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	Amount    string    `json:"amount"`
	PaidAt    time.Time `json:"paid_at"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReceiptResponse is the printable receipt view: the invoice plus its full
// payment history.
type ReceiptResponse struct {
	Invoice  InvoiceResponse   `json:"invoice"`
	Payments []PaymentResponse `json:"payments"`
}

// ToInvoiceResponse maps a domain invoice to its API representation.
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	lines := make([]ServiceLineResponse, len(inv.ServiceLines))
	for i, line := range inv.ServiceLines {
		lines[i] = ServiceLineResponse{
			Description: line.Description,
			Price:       line.Price.StringFixed(2),
		}
	}
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		CustomerName:  inv.CustomerName,
		IssuedAt:      inv.IssuedAt,
		Lines:         lines,
		Total:         inv.TotalAmount.StringFixed(2),
		PaidAmount:    inv.PaidAmount.StringFixed(2),
		Remaining:     inv.Remaining().StringFixed(2),
		Status:        inv.Status.String(),
		SettledAt:     inv.SettledAt,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

// ToInvoiceResponses maps a list of invoices.
func ToInvoiceResponses(invoices []*billing.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		responses[i] = ToInvoiceResponse(inv)
	}
	return responses
}

// ToPaymentResponse maps a domain payment to its API representation.
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount.StringFixed(2),
		PaidAt:    p.PaidAt,
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
	}
}

// ToPaymentResponses maps a list of payments.
func ToPaymentResponses(payments []*billing.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		responses[i] = ToPaymentResponse(p)
	}
	return responses
}
