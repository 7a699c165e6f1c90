package cash

import (
	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/coin"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/migration"
)

const (
	maxMemoSize int = 128
	maxRefSize  int = 64
)

func init() {
	migration.MustRegister(1, &SendMsg{}, migration.NoModification)
}

var _ crosslock.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message.
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible.
func (msg *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	if coin.IsEmpty(msg.Amount) || !msg.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	} else {
		errs = errors.AppendField(errs, "Amount", msg.Amount.Validate())
	}
	errs = errors.AppendField(errs, "Source", msg.Source.Validate())
	errs = errors.AppendField(errs, "Destination", msg.Destination.Validate())
	if len(msg.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.ErrInput)
	}
	if len(msg.Ref) > maxRefSize {
		errs = errors.AppendField(errs, "Ref", errors.ErrInput)
	}
	return errs
}
