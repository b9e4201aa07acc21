package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/sprayshop/backend/internal/domain/partner"
)

// CreateCustomerRequest is the input for creating a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,max=32"`
}

// UpdateCustomerRequest is the input for updating a customer. Nil fields
// are left unchanged.
type UpdateCustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=255"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,max=32"`
}

// CustomerListFilter carries list query parameters.
type CustomerListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// CustomerResponse is the API representation of a customer.
type CustomerResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	TotalSpent string     `json:"total_spent"`
	LastVisit  *time.Time `json:"last_visit,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToCustomerResponse maps a domain customer to its API representation.
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		TotalSpent: c.TotalSpent.StringFixed(2),
		LastVisit:  c.LastVisit,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ToCustomerResponses maps a list of customers.
func ToCustomerResponses(customers []*partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = ToCustomerResponse(c)
	}
	return responses
}
