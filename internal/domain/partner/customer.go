package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sprayshop/backend/internal/domain/shared"
)

// Customer represents a vehicle owner who brings work to the shop.
// It is the aggregate root for customer-related operations. Spending
// totals and visit dates are updated as payments come in, never set
// directly by callers.
type Customer struct {
	shared.BaseAggregateRoot
	Name       string          `gorm:"type:varchar(200);not null;index"`
	Email      string          `gorm:"type:varchar(200);index"`
	Phone      string          `gorm:"type:varchar(50);index"`
	TotalSpent decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LastVisit  *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(name, email, phone string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return nil, err
		}
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             email,
		Phone:             phone,
		TotalSpent:        decimal.Zero,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's contact information
func (c *Customer) Update(name, email, phone string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}

	c.Name = strings.TrimSpace(name)
	c.Email = email
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// RecordSpend adds a collected payment amount to the customer's
// lifetime total and marks the visit date
func (c *Customer) RecordSpend(amount decimal.Decimal, visitedAt time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Spend amount must be positive")
	}
	if visitedAt.IsZero() {
		visitedAt = time.Now()
	}

	c.TotalSpent = c.TotalSpent.Add(amount)
	if c.LastVisit == nil || visitedAt.After(*c.LastVisit) {
		c.LastVisit = &visitedAt
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerSpendRecordedEvent(c, amount))

	return nil
}

// HasVisited returns true if the customer has at least one recorded visit
func (c *Customer) HasVisited() bool {
	return c.LastVisit != nil
}

// Validation functions

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
