package fund

import "errors"

var (
	// ErrNotFound is returned for an unknown account.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for a duplicate initialize or a version
	// mismatch between read and write.
	ErrConflict = errors.New("conflict")

	// ErrInvalidPolicy is returned when split percentages do not sum to 100
	// or a policy value is out of range.
	ErrInvalidPolicy = errors.New("invalid policy")

	// ErrInsufficientFunds is returned when a debit exceeds the source balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrRetryable marks transient store contention or timeouts. The
	// operation left no partial state and may be retried verbatim.
	ErrRetryable = errors.New("retryable")

	// ErrInvalidAmount is returned for non-positive amounts and malformed
	// fund selections.
	ErrInvalidAmount = errors.New("invalid amount")
)
