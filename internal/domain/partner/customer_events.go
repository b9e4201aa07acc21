package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sprayshop/backend/internal/domain/shared"
)

// CustomerCreatedEvent is raised when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
}

// EventType returns the event type name
func (e *CustomerCreatedEvent) EventType() string {
	return "CustomerCreated"
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CustomerCreated", "Customer", c.ID),
		CustomerID:      c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
	}
}

// CustomerUpdatedEvent is raised when a customer's details change
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
}

// EventType returns the event type name
func (e *CustomerUpdatedEvent) EventType() string {
	return "CustomerUpdated"
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(c *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CustomerUpdated", "Customer", c.ID),
		CustomerID:      c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
	}
}

// CustomerSpendRecordedEvent is raised when a payment is attributed to
// the customer's lifetime spend
type CustomerSpendRecordedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID       `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	LastVisit  *time.Time      `json:"last_visit,omitempty"`
}

// EventType returns the event type name
func (e *CustomerSpendRecordedEvent) EventType() string {
	return "CustomerSpendRecorded"
}

// NewCustomerSpendRecordedEvent creates a new CustomerSpendRecordedEvent
func NewCustomerSpendRecordedEvent(c *Customer, amount decimal.Decimal) *CustomerSpendRecordedEvent {
	return &CustomerSpendRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CustomerSpendRecorded", "Customer", c.ID),
		CustomerID:      c.ID,
		Amount:          amount,
		TotalSpent:      c.TotalSpent,
		LastVisit:       c.LastVisit,
	}
}
