package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprayshop/backend/internal/domain/shared"
	"github.com/sprayshop/backend/internal/domain/shared/valueobject"
)

func newTestInvoice(t *testing.T, lines ServiceLines) *Invoice {
	t.Helper()
	inv, err := NewInvoice("INV-2025-0001", uuid.New(), "Kwame Mensah", time.Now(), lines)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	customerID := uuid.New()
	lines := ServiceLines{
		{Description: "Full body spray", Price: d(1500)},
		{Description: "Body works", Price: d(500)},
	}

	tests := []struct {
		name          string
		invoiceNumber string
		customerID    uuid.UUID
		customerName  string
		lines         ServiceLines
		wantErr       bool
		errCode       string
	}{
		{
			name:          "valid invoice",
			invoiceNumber: "INV-2025-0001",
			customerID:    customerID,
			customerName:  "Kwame Mensah",
			lines:         lines,
			wantErr:       false,
		},
		{
			name:          "empty invoice number",
			invoiceNumber: "",
			customerID:    customerID,
			customerName:  "Kwame Mensah",
			lines:         lines,
			wantErr:       true,
			errCode:       "INVALID_INVOICE_NUMBER",
		},
		{
			name:          "nil customer id",
			invoiceNumber: "INV-2025-0002",
			customerID:    uuid.Nil,
			customerName:  "Kwame Mensah",
			lines:         lines,
			wantErr:       true,
			errCode:       "INVALID_CUSTOMER",
		},
		{
			name:          "empty customer name",
			invoiceNumber: "INV-2025-0002",
			customerID:    customerID,
			customerName:  "",
			lines:         lines,
			wantErr:       true,
			errCode:       "INVALID_CUSTOMER_NAME",
		},
		{
			name:          "no service lines",
			invoiceNumber: "INV-2025-0002",
			customerID:    customerID,
			customerName:  "Kwame Mensah",
			lines:         ServiceLines{},
			wantErr:       true,
			errCode:       "INVALID_SERVICE_LINES",
		},
		{
			name:          "line with empty description",
			invoiceNumber: "INV-2025-0002",
			customerID:    customerID,
			customerName:  "Kwame Mensah",
			lines:         ServiceLines{{Description: "", Price: d(100)}},
			wantErr:       true,
			errCode:       "INVALID_SERVICE_LINES",
		},
		{
			name:          "line with negative price",
			invoiceNumber: "INV-2025-0002",
			customerID:    customerID,
			customerName:  "Kwame Mensah",
			lines:         ServiceLines{{Description: "Touch up respray", Price: d(-50)}},
			wantErr:       true,
			errCode:       "INVALID_SERVICE_LINES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := NewInvoice(tt.invoiceNumber, tt.customerID, tt.customerName, time.Now(), tt.lines)
			if tt.wantErr {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.errCode, domainErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.invoiceNumber, inv.InvoiceNumber)
			assert.Equal(t, "2000.00", inv.TotalAmount.StringFixed(2))
			assert.True(t, inv.PaidAmount.IsZero())
			assert.Equal(t, InvoiceStatusPending, inv.Status)
			assert.Equal(t, 1, inv.GetVersion())
			assert.Len(t, inv.GetDomainEvents(), 1)
			assert.Equal(t, "InvoiceCreated", inv.GetDomainEvents()[0].EventType())
		})
	}
}

func TestNewInvoice_ZeroTotalIsPending(t *testing.T) {
	inv := newTestInvoice(t, ServiceLines{
		{Description: "Goodwill touch up", Price: decimal.Zero},
	})

	assert.True(t, inv.TotalAmount.IsZero())
	assert.Equal(t, InvoiceStatusPending, inv.Status)
	assert.True(t, inv.Remaining().IsZero())
}

func TestInvoice_ApplyPayment_Partial(t *testing.T) {
	inv := newTestInvoice(t, ServiceLines{
		{Description: "Full body spray", Price: d(500)},
	})
	inv.ClearDomainEvents()

	payment, err := inv.ApplyPayment(valueobject.NewMoneyGHSFromFloat(200), time.Now(), "mobile money")
	require.NoError(t, err)
	require.NotNil(t, payment)

	assert.Equal(t, inv.ID, payment.InvoiceID)
	assert.Equal(t, "200.00", payment.Amount.StringFixed(2))
	assert.Equal(t, "mobile money", payment.Note)

	assert.Equal(t, "200.00", inv.PaidAmount.StringFixed(2))
	assert.Equal(t, "300.00", inv.Remaining().StringFixed(2))
	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
	assert.Nil(t, inv.SettledAt)
	assert.Equal(t, 2, inv.GetVersion())

	events := inv.GetDomainEvents()
	require.Len(t, events, 1)
	recorded, ok := events[0].(*PaymentRecordedEvent)
	require.True(t, ok)
	assert.Equal(t, InvoiceStatusPending, recorded.PreviousStatus)
	assert.Equal(t, InvoiceStatusPartiallyPaid, recorded.Status)
}

func TestInvoice_ApplyPayment_SettlesInvoice(t *testing.T) {
	inv := newTestInvoice(t, ServiceLines{
		{Description: "Full body spray", Price: d(500)},
	})

	_, err := inv.ApplyPayment(valueobject.NewMoneyGHSFromFloat(200), time.Now(), "")
	require.NoError(t, err)
	inv.ClearDomainEvents()

	_, err = inv.ApplyPayment(valueobject.NewMoneyGHSFromFloat(300), time.Now(), "")
	require.NoError(t, err)

	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.Remaining().IsZero())
	require.NotNil(t, inv.SettledAt)
	assert.Equal(t, 3, inv.GetVersion())

	events := inv.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "PaymentRecorded", events[0].EventType())
	assert.Equal(t, "InvoiceSettled", events[1].EventType())
}

func TestInvoice_ApplyPayment_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) *Invoice
		amount  float64
		wantErr error
	}{
		{
			name: "zero amount",
			setup: func(t *testing.T) *Invoice {
				return newTestInvoice(t, ServiceLines{{Description: "Body works", Price: d(500)}})
			},
			amount:  0,
			wantErr: ErrInvalidAmount,
		},
		{
			name: "negative amount",
			setup: func(t *testing.T) *Invoice {
				return newTestInvoice(t, ServiceLines{{Description: "Body works", Price: d(500)}})
			},
			amount:  -50,
			wantErr: ErrInvalidAmount,
		},
		{
			name: "amount above remaining",
			setup: func(t *testing.T) *Invoice {
				inv := newTestInvoice(t, ServiceLines{{Description: "Body works", Price: d(500)}})
				_, err := inv.ApplyPayment(valueobject.NewMoneyGHSFromFloat(400), time.Now(), "")
				require.NoError(t, err)
				return inv
			},
			amount:  100.01,
			wantErr: ErrExceedsRemainingBalance,
		},
		{
			name: "payment on settled invoice",
			setup: func(t *testing.T) *Invoice {
				inv := newTestInvoice(t, ServiceLines{{Description: "Body works", Price: d(500)}})
				_, err := inv.ApplyPayment(valueobject.NewMoneyGHSFromFloat(500), time.Now(), "")
				require.NoError(t, err)
				return inv
			},
			amount:  1,
			wantErr: ErrExceedsRemainingBalance,
		},
		{
			name: "payment on zero-total invoice",
			setup: func(t *testing.T) *Invoice {
				return newTestInvoice(t, ServiceLines{{Description: "Goodwill touch up", Price: decimal.Zero}})
			},
			amount:  10,
			wantErr: ErrExceedsRemainingBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := tt.setup(t)
			versionBefore := inv.GetVersion()
			paidBefore := inv.PaidAmount
			statusBefore := inv.Status

			payment, err := inv.ApplyPayment(valueobject.NewMoneyGHSFromFloat(tt.amount), time.Now(), "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, payment)

			// rejected payments leave the invoice untouched
			assert.Equal(t, versionBefore, inv.GetVersion())
			assert.True(t, paidBefore.Equal(inv.PaidAmount))
			assert.Equal(t, statusBefore, inv.Status)
		})
	}
}

func TestInvoice_Reconcile(t *testing.T) {
	inv := newTestInvoice(t, ServiceLines{
		{Description: "Full body spray", Price: d(500)},
	})

	p1, err := inv.ApplyPayment(valueobject.NewMoneyGHSFromFloat(200), time.Now(), "")
	require.NoError(t, err)
	p2, err := inv.ApplyPayment(valueobject.NewMoneyGHSFromFloat(150), time.Now(), "")
	require.NoError(t, err)

	assert.NoError(t, inv.Reconcile([]*Payment{p1, p2}))

	// a missing payment record is a reconciliation failure
	err = inv.Reconcile([]*Payment{p1})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "RECONCILIATION_MISMATCH", domainErr.Code)
}

func TestInvoice_StatusNeverMovesBackward(t *testing.T) {
	inv := newTestInvoice(t, ServiceLines{
		{Description: "Scratch and Dent repair", Price: d(300)},
	})

	previous := inv.Status
	for _, amount := range []float64{50, 100, 150} {
		_, err := inv.ApplyPayment(valueobject.NewMoneyGHSFromFloat(amount), time.Now(), "")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, inv.Status.Rank(), previous.Rank())
		previous = inv.Status
	}
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
}
