// Package billing contains the invoice ledger: invoices with immutable
// service line items, append-only partial payments, and the pure
// calculation rules that derive remaining balance and payment status.
package billing
