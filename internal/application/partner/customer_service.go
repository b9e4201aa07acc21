package partner

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sprayshop/backend/internal/domain/partner"
	"github.com/sprayshop/backend/internal/domain/shared"
	"github.com/sprayshop/backend/internal/infrastructure/realtime"
)

// CustomerService handles customer use cases.
type CustomerService struct {
	customerRepo partner.CustomerRepository
	publisher    realtime.Publisher
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customerRepo partner.CustomerRepository, publisher realtime.Publisher, logger *zap.Logger) *CustomerService {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo: customerRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// Create creates a new customer. Names are unique so walk-in customers can
// be matched on later invoices.
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	existing, err := s.customerRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this name already exists")
	}

	customer, err := partner.NewCustomer(req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishCustomerEvents(ctx, customer)
	response := ToCustomerResponse(customer)
	return &response, nil
}

// FindOrCreateByName returns the customer with the given name, creating a
// bare record when none exists. Used when an invoice names a customer the
// shop has not seen before.
func (s *CustomerService) FindOrCreateByName(ctx context.Context, name string) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByName(ctx, name)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	customer, err = partner.NewCustomer(name, "", "")
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		// Lost a create race: another request inserted the same name.
		if errors.Is(err, shared.ErrAlreadyExists) {
			return s.customerRepo.FindByName(ctx, name)
		}
		return nil, err
	}

	s.publishCustomerEvents(ctx, customer)
	return customer, nil
}

// GetByID retrieves a customer by ID.
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination.
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir

	page, err := s.customerRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToCustomerResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Update updates a customer's contact details.
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	name := customer.Name
	email := customer.Email
	phone := customer.Phone
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}

	if req.Name != nil && *req.Name != customer.Name {
		existing, err := s.customerRepo.FindByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != customer.ID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this name already exists")
		}
	}

	if err := customer.Update(name, email, phone); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	s.publishCustomerEvents(ctx, customer)
	response := ToCustomerResponse(customer)
	return &response, nil
}

// RecordSpend adds a settled amount to the customer's lifetime spend and
// advances their last visit.
func (s *CustomerService) RecordSpend(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal, visitedAt time.Time) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	if err := customer.RecordSpend(amount, visitedAt); err != nil {
		return err
	}
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return err
	}

	s.publishCustomerEvents(ctx, customer)
	return nil
}

// Delete removes a customer.
func (s *CustomerService) Delete(ctx context.Context, customerID uuid.UUID) error {
	if err := s.customerRepo.Delete(ctx, customerID); err != nil {
		return err
	}

	s.publishChange(ctx, realtime.ActionDeleted, customerID, nil)
	return nil
}

// Count returns the total number of customers.
func (s *CustomerService) Count(ctx context.Context) (int64, error) {
	return s.customerRepo.Count(ctx)
}

// publishCustomerEvents drains the customer's buffered domain events
// onto the change feed as row events carrying the current API
// representation. Deletes bypass this path; there is no aggregate left
// to buffer anything.
func (s *CustomerService) publishCustomerEvents(ctx context.Context, customer *partner.Customer) {
	for _, event := range customer.GetDomainEvents() {
		switch event.(type) {
		case *partner.CustomerCreatedEvent:
			s.publishChange(ctx, realtime.ActionCreated, customer.ID, ToCustomerResponse(customer))
		case *partner.CustomerUpdatedEvent, *partner.CustomerSpendRecordedEvent:
			s.publishChange(ctx, realtime.ActionUpdated, customer.ID, ToCustomerResponse(customer))
		}
	}
	customer.ClearDomainEvents()
}

// publishChange pushes a change event onto the feed. The feed is advisory;
// a publish failure is logged and swallowed so the mutation still succeeds.
func (s *CustomerService) publishChange(ctx context.Context, action realtime.ChangeAction, id uuid.UUID, row any) {
	event, err := realtime.NewChangeEvent(realtime.EntityCustomer, action, id, row)
	if err != nil {
		s.logger.Warn("Failed to build change event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish change event",
			zap.String("entity", realtime.EntityCustomer),
			zap.Error(err))
	}
}
