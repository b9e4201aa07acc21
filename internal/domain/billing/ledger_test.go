package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func TestComputeInvoiceTotal(t *testing.T) {
	tests := []struct {
		name  string
		lines ServiceLines
		want  string
	}{
		{
			name:  "empty lines yield zero",
			lines: ServiceLines{},
			want:  "0.00",
		},
		{
			name: "single line",
			lines: ServiceLines{
				{Description: "Full body spray", Price: d(1500)},
			},
			want: "1500.00",
		},
		{
			name: "multiple lines sum",
			lines: ServiceLines{
				{Description: "Full body spray", Price: d(1500)},
				{Description: "Scratch and Dent repair", Price: d(350.50)},
				{Description: "Touch up respray", Price: d(149.50)},
			},
			want: "2000.00",
		},
		{
			name: "zero-priced line contributes nothing",
			lines: ServiceLines{
				{Description: "Body works", Price: d(800)},
				{Description: "Touch up respray", Price: decimal.Zero},
			},
			want: "800.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := ComputeInvoiceTotal(tt.lines)
			assert.Equal(t, tt.want, total.StringFixed(2))
		})
	}
}

func TestComputeRemaining(t *testing.T) {
	tests := []struct {
		name  string
		total decimal.Decimal
		paid  decimal.Decimal
		want  string
	}{
		{"nothing paid", d(500), decimal.Zero, "500.00"},
		{"partially paid", d(500), d(200), "300.00"},
		{"fully paid", d(500), d(500), "0.00"},
		{"overpaid data clamps to zero", d(500), d(600), "0.00"},
		{"zero total", decimal.Zero, decimal.Zero, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeRemaining(tt.total, tt.paid).StringFixed(2))
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		total decimal.Decimal
		paid  decimal.Decimal
		want  InvoiceStatus
	}{
		{"no payment is pending", d(500), decimal.Zero, InvoiceStatusPending},
		{"partial payment", d(500), d(0.01), InvoiceStatusPartiallyPaid},
		{"one cent short of total", d(500), d(499.99), InvoiceStatusPartiallyPaid},
		{"exact payment is paid", d(500), d(500), InvoiceStatusPaid},
		{"overpaid data still reads paid", d(500), d(501), InvoiceStatusPaid},
		{"zero total is pending", decimal.Zero, decimal.Zero, InvoiceStatusPending},
		{"zero total ignores paid amount", decimal.Zero, d(10), InvoiceStatusPending},
		{"negative paid data reads pending", d(500), d(-1), InvoiceStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.total, tt.paid))
		})
	}
}

func TestValidatePayment(t *testing.T) {
	tests := []struct {
		name       string
		total      decimal.Decimal
		paid       decimal.Decimal
		amount     decimal.Decimal
		wantErr    error
		wantPaid   string
		wantStatus InvoiceStatus
	}{
		{
			name:    "zero amount rejected",
			total:   d(500),
			paid:    decimal.Zero,
			amount:  decimal.Zero,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount rejected",
			total:   d(500),
			paid:    decimal.Zero,
			amount:  d(-100),
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "amount above remaining rejected",
			total:   d(500),
			paid:    d(200),
			amount:  d(300.01),
			wantErr: ErrExceedsRemainingBalance,
		},
		{
			name:    "any payment on zero-total invoice rejected",
			total:   decimal.Zero,
			paid:    decimal.Zero,
			amount:  d(1),
			wantErr: ErrExceedsRemainingBalance,
		},
		{
			name:    "payment on settled invoice rejected",
			total:   d(500),
			paid:    d(500),
			amount:  d(0.01),
			wantErr: ErrExceedsRemainingBalance,
		},
		{
			name:       "partial payment accepted",
			total:      d(500),
			paid:       decimal.Zero,
			amount:     d(200),
			wantPaid:   "200.00",
			wantStatus: InvoiceStatusPartiallyPaid,
		},
		{
			name:       "payment of exact remaining settles invoice",
			total:      d(500),
			paid:       d(200),
			amount:     d(300),
			wantPaid:   "500.00",
			wantStatus: InvoiceStatusPaid,
		},
		{
			name:       "full payment in one go",
			total:      d(500),
			paid:       decimal.Zero,
			amount:     d(500),
			wantPaid:   "500.00",
			wantStatus: InvoiceStatusPaid,
		},
		{
			name:       "smallest unit payment accepted",
			total:      d(500),
			paid:       decimal.Zero,
			amount:     d(0.01),
			wantPaid:   "0.01",
			wantStatus: InvoiceStatusPartiallyPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transition, err := ValidatePayment(tt.total, tt.paid, tt.amount)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, transition)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, transition)
			assert.Equal(t, tt.wantPaid, transition.NewPaidAmount.StringFixed(2))
			assert.Equal(t, tt.wantStatus, transition.NewStatus)
			assert.Equal(t, ComputeRemaining(tt.total, transition.NewPaidAmount).StringFixed(2), transition.Remaining.StringFixed(2))
		})
	}
}

func TestValidatePayment_OverpaymentReportsRemaining(t *testing.T) {
	// Rejections reach callers working from stale snapshots, so the
	// message carries the balance that would still fit.
	_, err := ValidatePayment(d(1100), d(400), d(800))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExceedsRemainingBalance)
	assert.Contains(t, err.Error(), "700.00")

	_, err = ValidatePayment(d(500), d(500), d(0.01))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0.00")
}

func TestValidatePayment_StatusOnlyMovesForward(t *testing.T) {
	total := d(500)
	paid := decimal.Zero
	status := DeriveStatus(total, paid)

	for _, amount := range []decimal.Decimal{d(100), d(150), d(250)} {
		transition, err := ValidatePayment(total, paid, amount)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, transition.NewStatus.Rank(), status.Rank())
		paid = transition.NewPaidAmount
		status = transition.NewStatus
	}

	assert.Equal(t, InvoiceStatusPaid, status)
	assert.Equal(t, "500.00", paid.StringFixed(2))
}

func TestValidatePayment_FractionalAmountsSettleExactly(t *testing.T) {
	// 0.1 + 0.2 must reach exactly 0.3 - no float drift
	total := d(0.3)
	transition, err := ValidatePayment(total, decimal.Zero, d(0.1))
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPartiallyPaid, transition.NewStatus)

	transition, err = ValidatePayment(total, transition.NewPaidAmount, d(0.2))
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, transition.NewStatus)
	assert.True(t, transition.Remaining.IsZero())
}
