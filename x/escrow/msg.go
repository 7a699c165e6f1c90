package escrow

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/migration"
)

func init() {
	migration.MustRegister(1, &CreateEscrowMsg{}, migration.NoModification)
	migration.MustRegister(1, &WithdrawMsg{}, migration.NoModification)
	migration.MustRegister(1, &CancelMsg{}, migration.NoModification)
}

var (
	_ crosslock.Msg = (*CreateEscrowMsg)(nil)
	_ crosslock.Msg = (*WithdrawMsg)(nil)
	_ crosslock.Msg = (*CancelMsg)(nil)
)

// Path fulfills crosslock.Msg interface to allow routing.
func (CreateEscrowMsg) Path() string {
	return "escrow/create"
}

// Validate ensures all immutable parameters are present and the window
// schedule is well formed.
func (msg *CreateEscrowMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "OrderHash", validateHash(msg.OrderHash))
	errs = errors.AppendField(errs, "PreimageHash", validateHash(msg.PreimageHash))
	errs = errors.AppendField(errs, "Maker", msg.Maker.Validate())
	errs = errors.AppendField(errs, "Taker", msg.Taker.Validate())
	if msg.Amount == nil || !msg.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	} else {
		errs = errors.AppendField(errs, "Amount", msg.Amount.Validate())
	}
	if msg.SafetyDeposit != nil {
		if !msg.SafetyDeposit.IsNonNegative() {
			errs = errors.AppendField(errs, "SafetyDeposit", errors.Wrap(errors.ErrAmount, "must not be negative"))
		} else {
			errs = errors.AppendField(errs, "SafetyDeposit", msg.SafetyDeposit.Validate())
		}
	}
	errs = errors.AppendField(errs, "Timelocks", msg.Timelocks.Validate())
	if msg.PayoutPolicy != PayoutToCounterparty && msg.PayoutPolicy != PayoutToCaller {
		errs = errors.AppendField(errs, "PayoutPolicy", errors.Wrap(errors.ErrInput, "unknown policy"))
	}
	return errs
}

// Path fulfills crosslock.Msg interface to allow routing.
func (WithdrawMsg) Path() string {
	return "escrow/withdraw"
}

// Validate ensures the withdrawal carries an order hash and a secret.
func (msg *WithdrawMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "OrderHash", validateHash(msg.OrderHash))
	if len(msg.Preimage) == 0 {
		errs = errors.AppendField(errs, "Preimage", errors.Wrap(errors.ErrEmpty, "required"))
	}
	return errs
}

// Path fulfills crosslock.Msg interface to allow routing.
func (CancelMsg) Path() string {
	return "escrow/cancel"
}

// Validate ensures the cancellation names an order.
func (msg *CancelMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	errs = errors.AppendField(errs, "OrderHash", validateHash(msg.OrderHash))
	return errs
}
