package escrow

import (
	"github.com/crosslock-one/crosslock/errors"
)

// Error codes 1200-1209 are reserved for this package.
var (
	// ErrAlreadyInitialized is returned when an escrow record with the
	// same order hash is stored again.
	ErrAlreadyInitialized = errors.Register(1200, "already initialized")

	// ErrInsufficientFunding is returned when the maker wallet cannot
	// cover the amount plus the safety deposit.
	ErrInsufficientFunding = errors.Register(1201, "insufficient funding")

	// ErrAlreadyTerminal is returned when operating on an escrow that was
	// already withdrawn or cancelled.
	ErrAlreadyTerminal = errors.Register(1202, "already terminal")

	// ErrInvalidSecret is returned when the submitted preimage does not
	// hash to the escrow commitment.
	ErrInvalidSecret = errors.Register(1203, "invalid secret")

	// ErrTooEarly is returned when an operation is attempted before its
	// first valid window opens.
	ErrTooEarly = errors.Register(1204, "too early")

	// ErrPrivateWindow is returned when a caller other than the entitled
	// party acts during an exclusivity window.
	ErrPrivateWindow = errors.Register(1205, "private window")

	// ErrWindowExpired is returned when a withdrawal is attempted after
	// the cancellation boundary.
	ErrWindowExpired = errors.Register(1206, "window expired")

	// ErrInvalidTimelocks is returned for a non-monotonic or otherwise
	// malformed time window configuration.
	ErrInvalidTimelocks = errors.Register(1207, "invalid timelocks")

	// ErrDuplicateSwap is returned when creating an escrow for an order
	// hash that is already registered.
	ErrDuplicateSwap = errors.Register(1208, "duplicate swap")
)
