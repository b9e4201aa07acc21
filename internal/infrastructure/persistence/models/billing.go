package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sprayshop/backend/internal/domain/billing"
)

// InvoiceModel is the persistence mapping for billing.Invoice.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber string               `gorm:"column:invoice_number;type:varchar(64);not null;uniqueIndex"`
	CustomerID    uuid.UUID            `gorm:"column:customer_id;type:uuid;not null;index"`
	CustomerName  string               `gorm:"column:customer_name;type:varchar(255);not null"`
	IssuedAt      time.Time            `gorm:"column:issued_at;not null;index"`
	ServiceLines  billing.ServiceLines `gorm:"column:service_lines;type:jsonb;not null;default:'[]'"`
	TotalAmount   decimal.Decimal      `gorm:"column:total_amount;type:decimal(18,2);not null"`
	PaidAmount    decimal.Decimal      `gorm:"column:paid_amount;type:decimal(18,2);not null;default:0"`
	Status        string               `gorm:"column:status;type:varchar(32);not null;index"`
	SettledAt     *time.Time           `gorm:"column:settled_at"`
}

// TableName returns the table name for invoices.
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the model to a domain invoice.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		BaseAggregateRoot: m.ToAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		IssuedAt:          m.IssuedAt,
		ServiceLines:      m.ServiceLines,
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		Status:            billing.InvoiceStatus(m.Status),
		SettledAt:         m.SettledAt,
	}
}

// FromDomain copies domain state into the model.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.CustomerID = inv.CustomerID
	m.CustomerName = inv.CustomerName
	m.IssuedAt = inv.IssuedAt
	m.ServiceLines = inv.ServiceLines
	m.TotalAmount = inv.TotalAmount
	m.PaidAmount = inv.PaidAmount
	m.Status = inv.Status.String()
	m.SettledAt = inv.SettledAt
}

// InvoiceModelFromDomain builds a fresh model from a domain invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// PaymentModel is the persistence mapping for billing.Payment rows.
// Payments are append-only; there is no update path.
type PaymentModel struct {
	BaseModel
	InvoiceID uuid.UUID       `gorm:"column:invoice_id;type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null"`
	PaidAt    time.Time       `gorm:"column:paid_at;not null"`
	Note      string          `gorm:"column:note;type:varchar(500)"`
}

// TableName returns the table name for payments.
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model to a domain payment.
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		BaseEntity: m.ToBaseEntity(),
		InvoiceID:  m.InvoiceID,
		Amount:     m.Amount,
		PaidAt:     m.PaidAt,
		Note:       m.Note,
	}
}

// PaymentModelFromDomain builds a model from a domain payment.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromBaseEntity(p.BaseEntity)
	m.InvoiceID = p.InvoiceID
	m.Amount = p.Amount
	m.PaidAt = p.PaidAt
	m.Note = p.Note
	return m
}
