package aswap

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/migration"
)

func init() {
	migration.MustRegister(1, &CreateOrderMsg{}, migration.NoModification)
	migration.MustRegister(1, &CompleteOrderMsg{}, migration.NoModification)
	migration.MustRegister(1, &ClaimMsg{}, migration.NoModification)
	migration.MustRegister(1, &RefundOrderMsg{}, migration.NoModification)
}

var _ crosslock.Msg = (*CreateOrderMsg)(nil)
var _ crosslock.Msg = (*CompleteOrderMsg)(nil)
var _ crosslock.Msg = (*ClaimMsg)(nil)
var _ crosslock.Msg = (*RefundOrderMsg)(nil)

func (CreateOrderMsg) Path() string {
	return "aswap/create"
}

func (CompleteOrderMsg) Path() string {
	return "aswap/complete"
}

func (ClaimMsg) Path() string {
	return "aswap/claim"
}

func (RefundOrderMsg) Path() string {
	return "aswap/refund"
}

// Validate ensures the message is well formed. Whether the timeout is far
// enough in the future depends on the block clock and is checked by the
// handler.
func (msg *CreateOrderMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", msg.Source.Validate())
	if msg.DestinationChainID == "" {
		errs = errors.AppendField(errs, "DestinationChainID", errors.Wrap(errors.ErrEmpty, "required"))
	}
	if msg.DestinationToken == "" {
		errs = errors.AppendField(errs, "DestinationToken", errors.Wrap(errors.ErrEmpty, "required"))
	}
	if len(msg.PreimageHash) != preimageHashSize {
		errs = errors.AppendField(errs, "PreimageHash", errors.Wrapf(errors.ErrInput, "hash must be %d bytes", preimageHashSize))
	}
	if msg.Amount == nil || !msg.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	} else {
		errs = errors.AppendField(errs, "Amount", msg.Amount.Validate())
	}
	if msg.Timeout == 0 {
		errs = errors.AppendField(errs, "Timeout", errors.Wrap(errors.ErrEmpty, "required"))
	} else {
		errs = errors.AppendField(errs, "Timeout", msg.Timeout.Validate())
	}
	if len(msg.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.Wrapf(errors.ErrInput, "longer than %d characters", maxMemoSize))
	}
	return errs
}

func (msg *CompleteOrderMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "OrderID", validateOrderID(msg.OrderID))
	if len(msg.Preimage) == 0 {
		errs = errors.AppendField(errs, "Preimage", errors.Wrap(errors.ErrEmpty, "required"))
	}
	return errs
}

func (msg *ClaimMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "OrderID", validateOrderID(msg.OrderID))
	if msg.Amount == nil || !msg.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	} else {
		errs = errors.AppendField(errs, "Amount", msg.Amount.Validate())
	}
	return errs
}

func (msg *RefundOrderMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "OrderID", validateOrderID(msg.OrderID))
	return errs
}

// Order IDs are sha256 sums, same length as the preimage hash.
func validateOrderID(id []byte) error {
	if len(id) != preimageHashSize {
		return errors.Wrapf(errors.ErrInput, "order ID must be %d bytes", preimageHashSize)
	}
	return nil
}
