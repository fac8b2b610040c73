package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest is the operator's parsed intent: pay N installments against
// the credit at Row.
type PaymentRequest struct {
	Row               int
	InstallmentsToPay int
}

// LogEntry is one row appended to the payment log table (columns A:I).
// Write-only; the log is never read back except to find the next free row.
type LogEntry struct {
	Date              time.Time
	FirstName         string
	LastName          string
	Item              string
	ItemID            string
	Merchant          string
	Address           string
	InstallmentAmount decimal.Decimal
	InstallmentsPaid  int
}

type OutcomeStatus string

const (
	// OutcomeRegistered: receipt delivered and log entry appended.
	OutcomeRegistered OutcomeStatus = "registered"
	// OutcomeAlreadySettled: all installments were already paid; nothing
	// written, informational only.
	OutcomeAlreadySettled OutcomeStatus = "already_settled"
	// OutcomeExceedsRemaining: requested more installments than remain;
	// nothing written, operator must retry with a valid count.
	OutcomeExceedsRemaining OutcomeStatus = "exceeds_remaining"
)

// PaymentOutcome is the tagged result of a payment workflow run. Expected
// business endings (settled, exceeds) are variants here, not errors.
type PaymentOutcome struct {
	Status OutcomeStatus
	Record CreditRecord

	// Populated only for OutcomeRegistered.
	ReceiptNumber string
	LogRow        int
	RangeLabel    string
	AmountDueNow  decimal.Decimal
	PaidToDate    decimal.Decimal
	Remaining     int
}
