package resolvers

import (
	"fmt"

	"github.com/crosslock-one/crosslock"
	"github.com/crosslock-one/crosslock/errors"
	"github.com/crosslock-one/crosslock/migration"
)

func init() {
	migration.MustRegister(1, &UpdateResolversMsg{}, migration.NoModification)
}

var _ crosslock.Msg = (*UpdateResolversMsg)(nil)

// Path returns the routing path for this message.
func (UpdateResolversMsg) Path() string {
	return "resolvers/update"
}

// Validate ensures the message describes at least one change and every
// address is well formed. An address cannot be authorized and deauthorized
// within the same message.
func (msg *UpdateResolversMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	if len(msg.Authorize) == 0 && len(msg.Deauthorize) == 0 {
		errs = errors.Append(errs, errors.Wrap(errors.ErrEmpty, "no changes"))
	}
	for i, a := range msg.Authorize {
		errs = errors.AppendField(errs, fmt.Sprintf("Authorize.%d", i), a.Validate())
	}
	for i, a := range msg.Deauthorize {
		errs = errors.AppendField(errs, fmt.Sprintf("Deauthorize.%d", i), a.Validate())
		for _, b := range msg.Authorize {
			if a.Equals(b) {
				errs = errors.Append(errs, errors.Wrapf(errors.ErrInput, "address %s both authorized and deauthorized", a))
			}
		}
	}
	return errs
}
