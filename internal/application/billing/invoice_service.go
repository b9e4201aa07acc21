package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	partnerapp "github.com/sprayshop/backend/internal/application/partner"
	"github.com/sprayshop/backend/internal/domain/billing"
	"github.com/sprayshop/backend/internal/domain/shared"
	"github.com/sprayshop/backend/internal/domain/shared/valueobject"
	"github.com/sprayshop/backend/internal/infrastructure/realtime"
)

// conflictRetries is how many times RecordPayment re-reads and re-validates
// after losing an optimistic-lock race before surfacing the conflict.
const conflictRetries = 1

// InvoiceService handles the invoice and payment use cases.
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	paymentRepo billing.PaymentRepository
	customers   *partnerapp.CustomerService
	publisher   realtime.Publisher
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	customers *partnerapp.CustomerService,
	publisher realtime.Publisher,
	logger *zap.Logger,
) *InvoiceService {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		customers:   customers,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create issues a new invoice. The named customer is looked up
// case-insensitively and created when unknown, matching how the shop takes
// walk-in work.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	customer, err := s.customers.FindOrCreateByName(ctx, req.CustomerName)
	if err != nil {
		return nil, err
	}

	issuedAt := time.Now()
	if req.IssuedAt != nil {
		issuedAt = *req.IssuedAt
	}

	lines := make(billing.ServiceLines, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = billing.ServiceLine{
			Description: line.Description,
			Price:       line.Price,
		}
	}

	invoice, err := billing.NewInvoice(generateInvoiceNumber(issuedAt), customer.ID, customer.Name, issuedAt, lines)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		// A number collision is possible but vanishingly rare; one
		// regenerate covers it.
		if errors.Is(err, shared.ErrAlreadyExists) {
			invoice.InvoiceNumber = generateInvoiceNumber(issuedAt)
			err = s.invoiceRepo.Save(ctx, invoice)
		}
		if err != nil {
			return nil, err
		}
	}

	s.publishInvoiceEvents(ctx, invoice, nil)
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID.
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination.
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) (*shared.Paginated[InvoiceResponse], error) {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "customer_id is not a valid UUID")
		}
		domainFilter.Filters["customer_id"] = customerID
	}

	page, err := s.invoiceRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToInvoiceResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// RecordPayment appends a partial payment to an invoice. The invoice
// update and payment insert commit in one transaction, conditional on the
// version the invoice was read at. A lost race re-reads the invoice,
// re-validates the amount against the fresh balance, and retries once
// before surfacing the conflict to the caller.
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req RecordPaymentRequest) (*PaymentResponse, error) {
	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	amount := valueobject.NewMoneyGHS(req.Amount)

	var invoice *billing.Invoice
	var payment *billing.Payment
	for attempt := 0; ; attempt++ {
		var err error
		invoice, err = s.invoiceRepo.FindByID(ctx, invoiceID)
		if err != nil {
			return nil, err
		}

		payment, err = invoice.ApplyPayment(amount, paidAt, req.Note)
		if err != nil {
			return nil, err
		}

		err = s.invoiceRepo.SaveWithPayment(ctx, invoice, payment)
		if err == nil {
			break
		}
		if errors.Is(err, shared.ErrConcurrencyConflict) && attempt < conflictRetries {
			s.logger.Info("Payment hit a concurrent update, retrying",
				zap.String("invoice_id", invoiceID.String()),
				zap.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}

	// Lifetime spend tracking rides along after the ledger commit; a
	// failure here must not unwind the recorded payment.
	if err := s.customers.RecordSpend(ctx, invoice.CustomerID, payment.Amount, paidAt); err != nil {
		s.logger.Warn("Failed to record customer spend",
			zap.String("customer_id", invoice.CustomerID.String()),
			zap.Error(err))
	}

	s.publishInvoiceEvents(ctx, invoice, payment)
	response := ToPaymentResponse(payment)
	return &response, nil
}

// Payments returns the full payment history for an invoice, oldest first.
func (s *InvoiceService) Payments(ctx context.Context, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	if _, err := s.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(payments), nil
}

// Receipt builds the printable receipt: the invoice plus its payment
// history, cross-checked so a drifted paid amount is caught before it is
// handed to a customer.
func (s *InvoiceService) Receipt(ctx context.Context, invoiceID uuid.UUID) (*ReceiptResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Reconcile(payments); err != nil {
		s.logger.Error("Receipt reconciliation failed",
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err))
		return nil, err
	}

	// Receipts list the newest payment first.
	history := make([]*billing.Payment, len(payments))
	copy(history, payments)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].PaidAt.After(history[j].PaidAt)
	})

	return &ReceiptResponse{
		Invoice:  ToInvoiceResponse(invoice),
		Payments: ToPaymentResponses(history),
	}, nil
}

// CountByStatus returns invoice counts keyed by status string.
func (s *InvoiceService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts, err := s.invoiceRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(counts))
	for status, count := range counts {
		result[status.String()] = count
	}
	return result, nil
}

// SumOutstanding returns the total unpaid balance across the ledger.
func (s *InvoiceService) SumOutstanding(ctx context.Context) (string, error) {
	total, err := s.invoiceRepo.SumOutstanding(ctx)
	if err != nil {
		return "", err
	}
	return total.StringFixed(2), nil
}

// generateInvoiceNumber builds a number like INV-20260828-1A2B3C4D: the
// issue date plus a random suffix, unique without a sequence table.
func generateInvoiceNumber(issuedAt time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", issuedAt.Format("20060102"), suffix)
}

// publishInvoiceEvents drains the invoice's buffered domain events onto
// the change feed. The feed carries current API rows, so each event is
// translated into a row event for the aggregates it touched; a recorded
// payment emits both the updated invoice row and the new payment row.
func (s *InvoiceService) publishInvoiceEvents(ctx context.Context, invoice *billing.Invoice, payment *billing.Payment) {
	for _, event := range invoice.GetDomainEvents() {
		switch event.(type) {
		case *billing.InvoiceCreatedEvent:
			s.publishChange(ctx, realtime.EntityInvoice, realtime.ActionCreated, invoice.ID, ToInvoiceResponse(invoice))
		case *billing.PaymentRecordedEvent:
			s.publishChange(ctx, realtime.EntityInvoice, realtime.ActionUpdated, invoice.ID, ToInvoiceResponse(invoice))
			if payment != nil {
				s.publishChange(ctx, realtime.EntityPayment, realtime.ActionCreated, payment.ID, ToPaymentResponse(payment))
			}
		case *billing.InvoiceSettledEvent:
			// settlement is already visible on the updated invoice row
		}
	}
	invoice.ClearDomainEvents()
}

func (s *InvoiceService) publishChange(ctx context.Context, entity string, action realtime.ChangeAction, id uuid.UUID, row any) {
	event, err := realtime.NewChangeEvent(entity, action, id, row)
	if err != nil {
		s.logger.Warn("Failed to build change event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish change event",
			zap.String("entity", entity),
			zap.Error(err))
	}
}
