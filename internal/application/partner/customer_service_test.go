package partner

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sprayshop/backend/internal/domain/partner"
	"github.com/sprayshop/backend/internal/domain/shared"
)

// =============================================================================
// Mock Repository
// =============================================================================

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByName(ctx context.Context, name string) (*partner.Customer, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*partner.Customer], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*partner.Customer]), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Tests
// =============================================================================

func TestCustomerService_Create(t *testing.T) {
	t.Run("creates a customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo, nil, nil)

		repo.On("FindByName", mock.Anything, "Kwame Mensah").Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)

		response, err := service.Create(context.Background(), CreateCustomerRequest{
			Name:  "Kwame Mensah",
			Phone: "+233201234567",
		})

		require.NoError(t, err)
		assert.Equal(t, "Kwame Mensah", response.Name)
		assert.Equal(t, "+233201234567", response.Phone)
		assert.Equal(t, "0.00", response.TotalSpent)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo, nil, nil)

		existing, err := partner.NewCustomer("Kwame Mensah", "", "")
		require.NoError(t, err)
		repo.On("FindByName", mock.Anything, "Kwame Mensah").Return(existing, nil)

		_, err = service.Create(context.Background(), CreateCustomerRequest{Name: "Kwame Mensah"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_FindOrCreateByName(t *testing.T) {
	t.Run("returns the existing customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo, nil, nil)

		existing, err := partner.NewCustomer("Ama Owusu", "", "")
		require.NoError(t, err)
		repo.On("FindByName", mock.Anything, "Ama Owusu").Return(existing, nil)

		customer, err := service.FindOrCreateByName(context.Background(), "Ama Owusu")

		require.NoError(t, err)
		assert.Equal(t, existing.ID, customer.ID)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("creates when unknown", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo, nil, nil)

		repo.On("FindByName", mock.Anything, "Ama Owusu").Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)

		customer, err := service.FindOrCreateByName(context.Background(), "Ama Owusu")

		require.NoError(t, err)
		assert.Equal(t, "Ama Owusu", customer.Name)
		repo.AssertExpectations(t)
	})

	t.Run("recovers from a lost create race", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo, nil, nil)

		winner, err := partner.NewCustomer("Ama Owusu", "", "")
		require.NoError(t, err)

		repo.On("FindByName", mock.Anything, "Ama Owusu").Return(nil, shared.ErrNotFound).Once()
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(shared.ErrAlreadyExists)
		repo.On("FindByName", mock.Anything, "Ama Owusu").Return(winner, nil).Once()

		customer, err := service.FindOrCreateByName(context.Background(), "Ama Owusu")

		require.NoError(t, err)
		assert.Equal(t, winner.ID, customer.ID)
		repo.AssertExpectations(t)
	})
}

func TestCustomerService_Update(t *testing.T) {
	t.Run("updates contact details", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo, nil, nil)

		customer, err := partner.NewCustomer("Kwame Mensah", "", "")
		require.NoError(t, err)

		phone := "+233209876543"
		repo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		repo.On("Update", mock.Anything, customer).Return(nil)

		response, err := service.Update(context.Background(), customer.ID, UpdateCustomerRequest{
			Phone: &phone,
		})

		require.NoError(t, err)
		assert.Equal(t, phone, response.Phone)
		repo.AssertExpectations(t)
	})

	t.Run("rejects renaming onto another customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo, nil, nil)

		customer, err := partner.NewCustomer("Kwame Mensah", "", "")
		require.NoError(t, err)
		other, err := partner.NewCustomer("Ama Owusu", "", "")
		require.NoError(t, err)

		newName := "Ama Owusu"
		repo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
		repo.On("FindByName", mock.Anything, "Ama Owusu").Return(other, nil)

		_, err = service.Update(context.Background(), customer.ID, UpdateCustomerRequest{
			Name: &newName,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_RecordSpend(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := NewCustomerService(repo, nil, nil)

	customer, err := partner.NewCustomer("Kwame Mensah", "", "")
	require.NoError(t, err)

	visitedAt := time.Now()
	repo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	repo.On("Update", mock.Anything, customer).Return(nil)

	err = service.RecordSpend(context.Background(), customer.ID, decimal.NewFromInt(350), visitedAt)

	require.NoError(t, err)
	assert.True(t, customer.TotalSpent.Equal(decimal.NewFromInt(350)))
	require.NotNil(t, customer.LastVisit)
	assert.True(t, customer.LastVisit.Equal(visitedAt))
	repo.AssertExpectations(t)
}
