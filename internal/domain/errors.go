// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// Format errors (malformed input, recoverable by re-prompting)
	ErrInvalidPhoneFormat = errors.New("invalid phone format")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrMissingIdentity    = errors.New("either email or phone is required")

	// Verification errors (recoverable by retry or fallback tier)
	ErrVerificationTimeout = errors.New("verification timed out")
	ErrLookupFailed        = errors.New("directory lookup failed")

	// Pool errors (surfaced to caller, never retried automatically)
	ErrPoolNotFound   = errors.New("license pool not found")
	ErrPoolExhausted  = errors.New("no available seats in license pool")
	ErrPoolSuspended  = errors.New("license pool is not active")
	ErrNoSeatsInUse   = errors.New("no seats in use")
	ErrBelowUsedSeats = errors.New("total seats cannot be less than used seats")

	// Allocation errors (user-visible, terminal for the request)
	ErrDuplicateAllocation  = errors.New("identity already holds an active allocation")
	ErrPoolInactive         = errors.New("allocation is not permitted while pool is inactive")
	ErrInsufficientCapacity = errors.New("valid rows exceed available seats")
	ErrAllocationNotFound   = errors.New("allocation not found")

	// Organization errors
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrManagerAlreadyExists = errors.New("user is already a license manager")
	ErrManagerNotFound      = errors.New("user is not a license manager")

	// Persistence errors trigger a compensating seat release and are
	// surfaced as a generic failure.
	ErrPersistence = errors.New("persistence failure")
)
