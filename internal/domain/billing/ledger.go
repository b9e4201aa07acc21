package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sprayshop/backend/internal/domain/shared"
)

// Ledger calculation errors. These are the only failure modes of the
// pure payment-validation path; persistence and concurrency failures
// are surfaced by the repository layer. Overpayment errors are built
// per call so the message carries the actual remaining balance, and
// match this sentinel through their shared code.
var (
	ErrInvalidAmount           = shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be greater than zero")
	ErrExceedsRemainingBalance = shared.NewDomainError("EXCEEDS_REMAINING_BALANCE", "Payment amount exceeds the remaining balance")
)

// NewExceedsRemainingBalanceError reports the actual remaining balance.
// A caller rejected here is usually working from a stale snapshot, so
// the message tells them what would still fit.
func NewExceedsRemainingBalanceError(remaining decimal.Decimal) *shared.DomainError {
	return shared.NewDomainError("EXCEEDS_REMAINING_BALANCE",
		fmt.Sprintf("Payment amount exceeds the remaining balance of %s", remaining.StringFixed(2)))
}

// ComputeInvoiceTotal sums the prices of the given service lines.
// An empty slice yields zero.
func ComputeInvoiceTotal(lines ServiceLines) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price)
	}
	return total
}

// ComputeRemaining returns total - paid, clamped at zero.
// Stored paid amounts never exceed the total, but a reading of
// inconsistent data must not produce a negative balance.
func ComputeRemaining(total, paid decimal.Decimal) decimal.Decimal {
	remaining := total.Sub(paid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// DeriveStatus derives the payment status from the total and paid
// amounts. Status is always computed, never stored independently:
//
//	paid <= 0            -> Pending
//	0 < paid < total     -> Partially Paid
//	paid >= total > 0    -> Paid
//
// A zero-total invoice is Pending regardless of paid amount: there is
// nothing to collect, and nothing has been collected.
func DeriveStatus(total, paid decimal.Decimal) InvoiceStatus {
	if total.LessThanOrEqual(decimal.Zero) {
		return InvoiceStatusPending
	}
	if paid.LessThanOrEqual(decimal.Zero) {
		return InvoiceStatusPending
	}
	if paid.GreaterThanOrEqual(total) {
		return InvoiceStatusPaid
	}
	return InvoiceStatusPartiallyPaid
}

// PaymentTransition describes the state an invoice moves to when a
// validated payment is applied.
type PaymentTransition struct {
	NewPaidAmount decimal.Decimal
	NewStatus     InvoiceStatus
	Remaining     decimal.Decimal // remaining balance after the payment
}

// ValidatePayment checks whether a payment of the given amount can be
// applied to an invoice with the given total and paid amounts, and
// returns the resulting transition. It never mutates anything.
//
// Returns ErrInvalidAmount for non-positive amounts and
// ErrExceedsRemainingBalance when the amount is greater than the
// remaining balance. Overpayment is rejected, not clamped.
func ValidatePayment(total, paid, amount decimal.Decimal) (*PaymentTransition, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	remaining := ComputeRemaining(total, paid)
	if amount.GreaterThan(remaining) {
		return nil, NewExceedsRemainingBalanceError(remaining)
	}

	newPaid := paid.Add(amount)
	return &PaymentTransition{
		NewPaidAmount: newPaid,
		NewStatus:     DeriveStatus(total, newPaid),
		Remaining:     ComputeRemaining(total, newPaid),
	}, nil
}
