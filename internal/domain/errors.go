package domain

import "errors"

// Error taxonomy for the purchase pipeline. Handlers map these to HTTP
// statuses; the orchestrator maps them to outcome statuses.
var (
	// ErrBelowThreshold rejects a purchase before any durable write.
	ErrBelowThreshold = errors.New("purchase amount is below the earning threshold")

	// ErrUserNotFound covers the purchaser (and registry lookups generally).
	// A missing ancestor is not an error, it is a short chain.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEarning marks an idempotent replay of a (transaction, level)
	// credit. Callers treat it as a successful no-op.
	ErrDuplicateEarning = errors.New("earning already recorded for transaction and level")

	// ErrReferralLimit is returned by the admission check when a parent
	// already has the configured maximum of direct referrals.
	ErrReferralLimit = errors.New("referrer has reached the referral limit")

	ErrNameTaken = errors.New("name already registered")
)

// TransientError wraps a storage or delivery failure that is worth retrying.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}
