package domain

import "errors"

var (
	// Money errors
	ErrInvalidMoney   = errors.New("invalid amount")
	ErrMoneyPrecision = errors.New("amount has more than 4 fractional digits")
	ErrMoneyOverflow  = errors.New("amount overflow")

	// Record errors
	ErrUnknownKind = errors.New("unknown transaction type")

	// Structural errors abort the run.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
	ErrNegativeHeld         = errors.New("held funds would become negative")
	ErrLedgerInconsistent   = errors.New("ledger inconsistency detected")

	// Semantic errors cause the offending record to be ignored.
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrInsufficientFunds       = errors.New("insufficient available funds")
	ErrAccountLocked           = errors.New("account is locked")
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrClientMismatch          = errors.New("transaction belongs to another client")
	ErrInvalidStatusTransition = errors.New("invalid transaction status transition")
)

var semanticErrors = []error{
	ErrInvalidAmount,
	ErrInsufficientFunds,
	ErrAccountLocked,
	ErrTransactionNotFound,
	ErrClientMismatch,
	ErrInvalidStatusTransition,
}

// IsSemantic reports whether err is a precondition failure that only
// invalidates the record it came from.
func IsSemantic(err error) bool {
	for _, target := range semanticErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
