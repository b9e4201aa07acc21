package report

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sprayshop/backend/internal/domain/billing"
	"github.com/sprayshop/backend/internal/domain/inventory"
	"github.com/sprayshop/backend/internal/domain/partner"
	"github.com/sprayshop/backend/internal/domain/shared"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*billing.Invoice, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*billing.Invoice], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*billing.Invoice]), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithPayment(ctx context.Context, invoice *billing.Invoice, payment *billing.Payment) error {
	args := m.Called(ctx, invoice, payment)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CountByStatus(ctx context.Context) (map[billing.InvoiceStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[billing.InvoiceStatus]int64), args.Error(1)
}

func (m *MockInvoiceRepository) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockStockItemRepository struct {
	mock.Mock
}

func (m *MockStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*inventory.StockItem], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*inventory.StockItem]), args.Error(1)
}

func (m *MockStockItemRepository) FindLowStock(ctx context.Context) ([]*inventory.StockItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.StockItem), args.Error(1)
}

func (m *MockStockItemRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockItemRepository) Update(ctx context.Context, item *inventory.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStockItemRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

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

func TestDashboardService_Snapshot(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	itemRepo := new(MockStockItemRepository)
	customerRepo := new(MockCustomerRepository)
	service := NewDashboardService(invoiceRepo, itemRepo, customerRepo, nil)

	lowItem, err := inventory.NewStockItem("Masking Tape", 1, "roll", "Consumables", 5)
	require.NoError(t, err)

	customerRepo.On("Count", mock.Anything).Return(int64(42), nil)
	itemRepo.On("Count", mock.Anything).Return(int64(17), nil)
	invoiceRepo.On("CountByStatus", mock.Anything).Return(map[billing.InvoiceStatus]int64{
		billing.InvoiceStatusPaid:          9,
		billing.InvoiceStatusPartiallyPaid: 3,
	}, nil)
	invoiceRepo.On("SumOutstanding", mock.Anything).Return(decimal.RequireFromString("2450.50"), nil)
	itemRepo.On("FindLowStock", mock.Anything).Return([]*inventory.StockItem{lowItem}, nil)

	snapshot, err := service.Snapshot(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(42), snapshot.CustomerCount)
	assert.Equal(t, int64(17), snapshot.StockItemCount)
	assert.Equal(t, "2450.50", snapshot.OutstandingBalance)

	// Statuses with no invoices still appear with a zero count.
	assert.Equal(t, int64(0), snapshot.InvoiceCounts["Pending"])
	assert.Equal(t, int64(3), snapshot.InvoiceCounts["Partially Paid"])
	assert.Equal(t, int64(9), snapshot.InvoiceCounts["Paid"])

	require.Len(t, snapshot.LowStockItems, 1)
	assert.True(t, snapshot.LowStockItems[0].LowStock)
	assert.False(t, snapshot.GeneratedAt.IsZero())
}
