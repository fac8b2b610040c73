package domain

import "github.com/shopspring/decimal"

// TextSentinel marks a text cell that was empty in the ledger. Sentinel
// values never satisfy the identifying-field invariants.
const TextSentinel = "N/A"

// CreditRecord is one row of the master table: a single client's outstanding
// installment credit for one item. Built fresh on every lookup, read-only
// within a payment transaction.
type CreditRecord struct {
	Row int // 1-based master table row, immutable once loaded

	FirstName string
	LastName  string

	Item     string
	ItemCode string
	ItemID   string // numeric in practice, used for receipt numbering

	Merchant string
	Address  string

	TotalCredit       decimal.Decimal
	InstallmentAmount decimal.Decimal
	TotalInstallments int
	InstallmentsPaid  int
}

// Remaining returns the number of unpaid installments. The workflow checks
// feasibility against this; it may be negative on inconsistent ledger data.
func (c CreditRecord) Remaining() int {
	return c.TotalInstallments - c.InstallmentsPaid
}

// CreditMatch is the projection of a master row used while the operator picks
// between a client's credits. It round-trips through the selection callback
// by row number only.
type CreditMatch struct {
	Row      int
	Item     string
	ItemCode string
	ItemID   string
}
