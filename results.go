package crosslock

import (
	"github.com/crosslock-one/crosslock/coin"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult captures any non-error result of a successful
// state transition, to make sure people use error for error cases.
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// RequiredFee can set a custom fee that must be paid for this
	// transaction to be allowed to run. This may be enforced by a
	// decorator.
	RequiredFee coin.Coin
	// Tags can be used by the storage engine to index and search the
	// transaction history
	Tags []common.KVPair
	// GasUsed is the amount of work already charged for this transition
	GasUsed int64
}

// CheckResult captures any non-error result of the validation phase.
type CheckResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// RequiredFee can set a custom fee that must be paid for this
	// transaction to be allowed to run. This may be enforced by a
	// decorator.
	RequiredFee coin.Coin
	// GasAllocated is the maximum units of work we allow this tx to perform
	GasAllocated int64
	// GasPayment is the total fees for this tx (or other source of payment)
	GasPayment int64
}

// NewCheck sets the gas allocated and the log message but no more info.
// These are the most common info needed to be set by the Handler.
func NewCheck(gasAllocated int64, log string) CheckResult {
	return CheckResult{
		GasAllocated: gasAllocated,
		Log:          log,
	}
}
