package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	inventoryapp "github.com/sprayshop/backend/internal/application/inventory"
	"github.com/sprayshop/backend/internal/domain/billing"
	"github.com/sprayshop/backend/internal/domain/inventory"
	"github.com/sprayshop/backend/internal/domain/partner"
)

// DashboardResponse is the shop-floor overview: who owes what, what is
// running out, and how many customers are on the books.
type DashboardResponse struct {
	CustomerCount      int64                            `json:"customer_count"`
	StockItemCount     int64                            `json:"stock_item_count"`
	InvoiceCounts      map[string]int64                 `json:"invoice_counts"`
	OutstandingBalance string                           `json:"outstanding_balance"`
	LowStockItems      []inventoryapp.StockItemResponse `json:"low_stock_items"`
	GeneratedAt        time.Time                        `json:"generated_at"`
}

// DashboardService assembles the dashboard from the ledgers.
type DashboardService struct {
	invoiceRepo  billing.InvoiceRepository
	itemRepo     inventory.StockItemRepository
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	invoiceRepo billing.InvoiceRepository,
	itemRepo inventory.StockItemRepository,
	customerRepo partner.CustomerRepository,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		invoiceRepo:  invoiceRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Snapshot builds the current dashboard. Statuses with no invoices are
// reported as zero so the client never has to guess at missing keys.
func (s *DashboardService) Snapshot(ctx context.Context) (*DashboardResponse, error) {
	customerCount, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	itemCount, err := s.itemRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	statusCounts, err := s.invoiceRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	invoiceCounts := map[string]int64{
		billing.InvoiceStatusPending.String():       0,
		billing.InvoiceStatusPartiallyPaid.String(): 0,
		billing.InvoiceStatusPaid.String():          0,
	}
	for status, count := range statusCounts {
		invoiceCounts[status.String()] = count
	}

	outstanding, err := s.invoiceRepo.SumOutstanding(ctx)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.itemRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		CustomerCount:      customerCount,
		StockItemCount:     itemCount,
		InvoiceCounts:      invoiceCounts,
		OutstandingBalance: outstanding.StringFixed(2),
		LowStockItems:      inventoryapp.ToStockItemResponses(lowStock),
		GeneratedAt:        time.Now(),
	}, nil
}
