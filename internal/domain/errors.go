package domain

import "errors"

// Failure taxonomy. Expected business outcomes (fully paid, exceeds
// remaining) are NOT errors; they are PaymentOutcome variants.
var (
	// ErrConnection: the ledger could not be reached or authenticated
	// (transient infrastructure). Surfaced as "try again later".
	ErrConnection = errors.New("ledger connection failed")

	// ErrRemoteAPI: the ledger service rejected the call (quota, permission).
	ErrRemoteAPI = errors.New("ledger service rejected the request")

	// ErrInvalidLedgerData: a master row fails structural or business
	// invariants. Never silently defaulted; the row must be corrected.
	ErrInvalidLedgerData = errors.New("invalid ledger data")

	// ErrInvalidUserInput: malformed command text or out-of-range installment
	// count, rejected before any ledger access.
	ErrInvalidUserInput = errors.New("invalid user input")

	// ErrPaymentUncertain: the receipt was delivered but the log append
	// failed afterwards. Not retried, the log would risk a duplicate entry;
	// the operator must verify with an administrator.
	ErrPaymentUncertain = errors.New("payment status uncertain")
)
